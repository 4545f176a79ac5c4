package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Picker asks the user for a folder. ok is false when the user gave up.
type Picker interface {
	PickFolder(prompt string) (path string, ok bool, err error)
}

// readLine returns the next trimmed line, io.EOF once input is exhausted
func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPicker reads the folder path from the terminal, an empty line cancels
type promptPicker struct {
	in  *bufio.Reader
	out io.Writer
}

func (p *promptPicker) PickFolder(prompt string) (string, bool, error) {
	fmt.Fprintf(p.out, "%s (empty to cancel): ", prompt)
	line, err := readLine(p.in)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", false, nil
		}
		return "", false, err
	}
	if line == "" {
		return "", false, nil
	}
	return line, true, nil
}
