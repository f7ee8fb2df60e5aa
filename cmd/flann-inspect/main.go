// Command flann-inspect prints the header metadata of one or more index
// files without loading their payloads.
//
// Usage:
//
//	flann-inspect index1.flann [index2.flann ...]
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/AndersHogqvist/flann/format"
)

type fileInfo struct {
	path   string
	header *format.Header
	err    error
}

func main() {
	paths := os.Args[1:]
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: flann-inspect <index-file> [<index-file> ...]")
		os.Exit(2)
	}

	infos := make([]fileInfo, len(paths))

	var g errgroup.Group
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			infos[i] = readInfo(path)
			return nil
		})
	}
	_ = g.Wait()

	failed := false
	for _, info := range infos {
		printInfo(info)
		if info.err != nil {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func readInfo(path string) fileInfo {
	f, err := os.Open(path)
	if err != nil {
		return fileInfo{path: path, err: err}
	}
	defer f.Close()

	header, err := format.ReadHeader(f)

	return fileInfo{path: path, header: header, err: err}
}

var (
	pathColor  = color.New(color.FgCyan, color.Bold)
	labelColor = color.New(color.FgWhite, color.Faint)
	errColor   = color.New(color.FgRed, color.Bold)
	legacyNote = color.New(color.FgYellow)
)

func printInfo(info fileInfo) {
	pathColor.Println(info.path)
	if info.err != nil {
		errColor.Printf("  error: %v\n", info.err)
		return
	}

	h := info.header
	printField("signature", h.SignatureString())
	printField("version", h.VersionString())
	printField("algorithm", h.Algorithm.String())
	printField("data type", h.DataType.String())
	printField("shape", fmt.Sprintf("%d x %d", h.Rows, h.Cols))
	printField("compression", h.Compression.String())
	if h.IsLegacy() {
		printField("first block", fmt.Sprintf("%d bytes uncompressed (incl. header)", h.FirstBlockSize))
		legacyNote.Println("  legacy v1.0 single-block format")
	} else {
		printField("first block", fmt.Sprintf("%d bytes compressed", h.FirstBlockSize))
	}
}

func printField(label, value string) {
	labelColor.Printf("  %-12s", label)
	fmt.Println(value)
}
