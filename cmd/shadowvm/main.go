// shadowvm CLI - inspects class renaming and the account store of a sandbox
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chazu/shadowvm/config"
	"github.com/chazu/shadowvm/kernel"
	"github.com/chazu/shadowvm/naming"
	"github.com/spf13/pflag"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(fs *pflag.FlagSet, w io.Writer) func() {
	return func() {
		fmt.Fprintf(w, "Usage: shadowvm [options] <command> [args...]\n\n")
		fmt.Fprintf(w, "Commands:\n")
		fmt.Fprintf(w, "  rename <name>...         original name -> sandbox name\n")
		fmt.Fprintf(w, "  restore <name>...        sandbox name -> original name\n")
		fmt.Fprintf(w, "  wrapper <name>...        exception wrapper of an original name\n")
		fmt.Fprintf(w, "  classify <name>...       class category (use --post for sandbox names)\n")
		fmt.Fprintf(w, "  account open <address>   create an account\n")
		fmt.Fprintf(w, "  account balance <address>\n")
		fmt.Fprintf(w, "\nOptions:\n")
		fs.SetOutput(w)
		fs.PrintDefaults()
		fmt.Fprintf(w, "\nExamples:\n")
		fmt.Fprintf(w, "  shadowvm rename java.lang.String\n")
		fmt.Fprintf(w, "  shadowvm rename --array unifying '[Lcom.example.Token'\n")
		fmt.Fprintf(w, "  shadowvm classify --post org.shadowvm.arraywrapper.IntArray\n")
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("shadowvm", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "path to sandbox.toml (default: search upward from the working directory)")
	verbose := fs.CountP("verbose", "v", "increase log verbosity (repeatable)")
	arrayType := fs.String("array", "precise", "array wrapper strategy for rename: precise or unifying")
	post := fs.Bool("post", false, "classify: names are in sandbox (post-rename) form")
	fs.Usage = usage(fs, stderr)
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}
	commonlog.Configure(*verbose, nil)

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	cmd, names := rest[0], rest[1:]
	switch cmd {
	case "rename", "restore", "wrapper", "classify":
		hint, err := parseArrayType(*arrayType)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		r, err := cfg.Renamer()
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return runNames(r, cmd, names, hint, *post, stdout, stderr)
	case "account":
		return runAccount(cfg, names, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.FindAndLoad(wd)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return cfg, nil
}

func parseArrayType(s string) (naming.ArrayType, error) {
	switch strings.ToLower(s) {
	case "precise":
		return naming.PreciseType, nil
	case "unifying":
		return naming.UnifyingType, nil
	}
	return naming.NoArrayType, fmt.Errorf("unknown array type %q", s)
}

// runNames applies one renamer operation to each name, printing one result
// per line. It keeps going after a failure and reports it in the exit code.
func runNames(r *naming.Renamer, cmd string, names []string, hint naming.ArrayType, post bool, stdout, stderr io.Writer) int {
	if len(names) == 0 {
		fmt.Fprintf(stderr, "Error: %s needs at least one class name\n", cmd)
		return 2
	}
	status := 0
	for _, name := range names {
		var out string
		var err error
		switch cmd {
		case "rename":
			out, err = r.ToPostRename(name, hint)
		case "restore":
			out, err = r.ToPreRename(name)
		case "wrapper":
			out, err = r.ToExceptionWrapper(name)
		case "classify":
			var c naming.ClassCategory
			if post {
				c, err = r.ClassifyPostRename(name)
			} else {
				c, err = r.ClassifyPreRename(name, hint)
			}
			out = c.String()
		}
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			status = 1
			continue
		}
		fmt.Fprintln(stdout, out)
	}
	return status
}

func runAccount(cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintf(stderr, "Usage: shadowvm account open|balance <address>\n")
		return 2
	}
	addr, err := kernel.ParseAddress(args[1])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	k, err := cfg.OpenKernel()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer k.Close()

	switch args[0] {
	case "open":
		if err := k.CreateAccount(addr); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, addr)
	case "balance":
		bal, err := k.Balance(addr)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, bal)
	default:
		fmt.Fprintf(stderr, "Error: unknown account command %q\n", args[0])
		return 2
	}
	return 0
}
