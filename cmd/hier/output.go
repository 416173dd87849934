package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"hier/internal/classpool"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	labelColor  = color.New(color.Faint)
	okColor     = color.New(color.FgGreen)
	failColor   = color.New(color.FgRed)
)

type field struct {
	label string
	value string
}

// printFields writes label/value pairs with labels padded to a common width.
func printFields(w io.Writer, fields []field) {
	width := 0
	for _, f := range fields {
		width = max(width, runewidth.StringWidth(f.label))
	}
	for _, f := range fields {
		fmt.Fprintf(w, "  %s  %s\n", labelColor.Sprint(runewidth.FillRight(f.label, width)), f.value)
	}
}

func sourceNames(classes []*classpool.Class) string {
	if len(classes) == 0 {
		return "-"
	}
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.SourceName()
	}
	return strings.Join(names, ", ")
}

func printClassList(w io.Writer, classes []*classpool.Class) {
	for _, c := range classes {
		fmt.Fprintln(w, c.SourceName())
	}
}
