package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/seanjh/cbind/config"
	"github.com/seanjh/cbind/generator"
	"github.com/seanjh/cbind/parser"
	"github.com/seanjh/cbind/typemap"
)

var (
	packageName string
	libName     string
	configPath  string
	verbose     bool
)

var log = commonlog.GetLogger("cbind")

var rootCmd = &cobra.Command{
	Use:   "cbind <header.h> <output.go>",
	Short: "Generate Go FFI bindings from a C header",
	Long: `cbind reads a C header file and writes a Go source file that binds the
header's functions through libffi: enum mirrors, struct documentation,
typedef mirrors, per-function ABI declarations, and one callable wrapper
per declared function.

Declarations that do not match a supported shape are skipped.
`,
	Args:          cobra.ExactArgs(2),
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&packageName, "package", "p", "bindings", "package name for the generated file")
	rootCmd.Flags().StringVarP(&libName, "lib", "l", "", "library name (e.g. 'mylib' for libmylib.so); defaults to the header's base name")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a TOML options file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func run(cmd *cobra.Command, args []string) error {
	if verbose {
		commonlog.Configure(1, nil)
	} else {
		commonlog.Configure(0, nil)
	}

	headerPath, outPath := args[0], args[1]

	pkg, lib := packageName, libName
	var extraTypes map[string]string

	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if pkg == "bindings" && cfg.Output.Package != "" {
			pkg = cfg.Output.Package
		}
		if lib == "" {
			lib = cfg.Output.Library
		}
		extraTypes = cfg.Types
	}
	if lib == "" {
		base := filepath.Base(headerPath)
		lib = strings.TrimSuffix(base, filepath.Ext(base))
	}

	data, err := os.ReadFile(headerPath)
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}

	hdr, err := parser.Parse(string(data))
	if err != nil {
		return fmt.Errorf("parsing header: %w", err)
	}
	log.Infof("parsed %d enums, %d structs, %d typedefs, %d functions",
		len(hdr.Enums), len(hdr.Structs), len(hdr.Typedefs), len(hdr.Functions))

	res := typemap.NewResolver(hdr.TypedefMap, hdr.EnumNames(), extraTypes)

	out, err := generator.New(pkg, lib, hdr, res).Generate()
	if err != nil {
		return fmt.Errorf("generating bindings: %w", err)
	}

	if err := os.WriteFile(outPath, []byte(out), 0644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	log.Infof("wrote %d bytes to %s", len(out), outPath)

	fmt.Printf("Generated: %s\n", outPath)
	return nil
}
