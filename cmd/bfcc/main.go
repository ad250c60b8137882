// Command bfcc is an optimizing ahead-of-time compiler and reference
// interpreter for a minimal eight-token tape-machine language.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"j5.nz/bfcc"
)

var (
	optLevel    int
	partialEval bool
	profile     bool
	prettyPrint bool
	emitLLVM    bool
	noBinary    bool
	debug       bool
	interpret   bool
	outputPath  string
)

var rootCmd = &cobra.Command{
	Use:   "bfcc <file>",
	Short: "An optimizing compiler and interpreter for a minimal tape-machine language",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	rootCmd.Flags().IntVarP(&optLevel, "optimize", "O", 1, "optimizer level 0-3")
	rootCmd.Flags().BoolVarP(&partialEval, "partial-eval", "e", false, "run the partial evaluator before the final stage")
	rootCmd.Flags().BoolVarP(&profile, "profile", "p", false, "run the interpreter and print a per-node execution profile")
	rootCmd.Flags().BoolVarP(&prettyPrint, "pretty", "P", false, "print the IR tree instead of compiling or running it")
	rootCmd.Flags().BoolVar(&emitLLVM, "llvm", false, "emit LLVM IR instead of x86-64 assembly")
	rootCmd.Flags().BoolVar(&noBinary, "no-binary", false, "stop after emitting assembly/IR text (this tool never assembles or links, so output is unchanged)")
	rootCmd.Flags().BoolVarP(&interpret, "interpret", "i", false, "run the reference interpreter instead of emitting a backend")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "enable debug-level logging")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCompile(cmd *cobra.Command, args []string) error {
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := bfcc.LoadConfig(optLevel, partialEval, profile, prettyPrint, emitLLVM, noBinary, debug, outputPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	nodes, err := bfcc.Parse(src)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	nodes = bfcc.Optimize(nodes, cfg.OptLevel)

	if cfg.PartialEval {
		nodes = bfcc.PartialEval(nodes)
	}

	out, closeOut, err := openOutput(cfg.OutputPath)
	if err != nil {
		return err
	}
	defer closeOut()

	if cfg.PrettyPrint {
		fmt.Fprint(out, bfcc.PrettyPrint(nodes))
		return nil
	}

	if interpret || cfg.Profile {
		ip := bfcc.NewInterpreter(os.Stdin, out)
		if err := ip.Run(nodes); err != nil {
			return fmt.Errorf("run: %w", err)
		}
		if cfg.Profile {
			return bfcc.Profile(os.Stderr, nodes)
		}
		return nil
	}

	// NoBinary stops short of assembling/linking, which this tool never
	// does anyway (out of scope) — it still emits the assembly/IR text.
	var text string
	if cfg.EmitLLVM {
		text = bfcc.NewLLVMGenerator().Generate(nodes)
	} else {
		text = bfcc.NewX64Generator().Generate(nodes)
	}
	_, err = fmt.Fprint(out, text)
	return err
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, func() { f.Close() }, nil
}
