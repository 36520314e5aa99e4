package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/labstack/gommon/color"
	"github.com/sirupsen/logrus"

	"mython/internal/interp"
	"mython/internal/lexer"
	"mython/internal/parser"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	traceIndent := flag.Bool("trace-indent", false, "log every token emitted by the lexer")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("Usage: mython [-debug] [-trace-indent] /path/to/source.my")
		os.Exit(2)
	}

	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	absPath, err := filepath.Abs(flag.Arg(0))
	if err != nil {
		logrus.WithError(err).Fatal("resolving source path")
	}

	source, err := os.ReadFile(absPath)
	if err != nil {
		logrus.WithError(err).Fatal("reading source file")
	}

	if !run(absPath, string(source), *traceIndent) {
		os.Exit(1)
	}
}

func run(absPath, source string, traceIndent bool) bool {
	lex := lexer.New(source)
	tokens := lex.Tokens()

	if traceIndent {
		for _, t := range tokens {
			logrus.WithField("token", t.String()).Info("lexed")
		}
	}

	stmts, err := parser.Parse(tokens)
	if err != nil {
		reportError(absPath, err)
		return false
	}

	ev := interp.New(&interp.SimpleContext{Out: os.Stdout})
	ev.Trace = logrus.GetLevel() == logrus.DebugLevel
	if err := ev.Run(stmts); err != nil {
		reportError(absPath, err)
		return false
	}
	return true
}

func reportError(absPath string, err error) {
	logrus.WithField("file", absPath).Error(err)
	fmt.Fprintln(os.Stderr, color.Red(fmt.Sprintf("%s: %s", absPath, err)))
}
