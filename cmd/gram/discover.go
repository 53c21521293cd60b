package main

import (
	"errors"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/boyter/gocodewalker"
)

// ErrNoGramFiles is returned when the arguments yield no .gram files.
var ErrNoGramFiles = errors.New("no .gram files found")

// discoverFiles expands the arguments into a sorted list of .gram files.
// Directory arguments are walked recursively, respecting .gitignore. With
// no arguments the current directory is walked.
func discoverFiles(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if strings.HasSuffix(arg, ".gram") {
				files = append(files, arg)
			}

			continue
		}

		found, err := walkDir(arg)
		if err != nil {
			return nil, err
		}

		files = append(files, found...)
	}

	if len(files) == 0 {
		return nil, ErrNoGramFiles
	}

	sort.Strings(files)

	return files, nil
}

// walkDir walks a directory for .gram files, respecting .gitignore.
func walkDir(root string) ([]string, error) {
	fileListQueue := make(chan *gocodewalker.File, 100)

	fileWalker := gocodewalker.NewFileWalker(root, fileListQueue)
	fileWalker.AllowListExtensions = []string{"gram"}

	var walkErr error

	fileWalker.SetErrorHandler(func(e error) bool {
		walkErr = e

		return true
	})

	var files []string

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		for f := range fileListQueue {
			files = append(files, f.Location)
		}
	}()

	if err := fileWalker.Start(); err != nil {
		return nil, err
	}

	wg.Wait()

	return files, walkErr
}
