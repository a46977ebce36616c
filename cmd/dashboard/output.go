package main

import (
	"fmt"
	"io"

	"github.com/jwalton/go-supportscolor"
)

var (
	green  = "\033[32m"
	yellow = "\033[33m"
	red    = "\033[31m"
	reset  = "\033[0m"
)

func init() {
	if !supportscolor.Stdout().SupportsColor {
		green, yellow, red, reset = "", "", "", ""
	}
}

func printOK(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s[OK]%s %s\n", green, reset, fmt.Sprintf(format, args...))
}

func printWarn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s[WARN]%s %s\n", yellow, reset, fmt.Sprintf(format, args...))
}

func printFail(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s[FAIL]%s %s\n", red, reset, fmt.Sprintf(format, args...))
}

func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "      %s\n", fmt.Sprintf(format, args...))
}
