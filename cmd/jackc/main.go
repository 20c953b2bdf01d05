// This is the main-driver for our compiler.
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skx/jackvm/compiler"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the "jackc <path>" command: a single positional
// argument naming either a .jack file or a directory of .jack files.
func newRootCmd() *cobra.Command {
	var verbose bool

	logger := logrus.New()

	cmd := &cobra.Command{
		Use:           "jackc <file.jack | directory>",
		Short:         "Compile Jack source into VM code",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logger.SetLevel(logrus.InfoLevel)
			} else {
				logger.SetLevel(logrus.WarnLevel)
			}
			return run(args[0], logger)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log per-file compilation progress")
	return cmd
}

// run dispatches on whether path names a .jack file or a directory.
func run(path string, logger *logrus.Logger) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "cannot access %s", path)
	}

	switch {
	case info.Mode().IsRegular() && strings.HasSuffix(path, ".jack"):
		return translateFile(path, logger)
	case info.IsDir():
		return translateDir(path, logger)
	default:
		return errors.Errorf("usage: jackc <file.jack | directory>")
	}
}

// translateFile compiles a single .jack file to its sibling .vm file.
func translateFile(path string, logger *logrus.Logger) error {
	logger.Infof("compiling %s", path)

	engine, err := compiler.New(path)
	if err != nil {
		return errors.Wrapf(err, "compiling %s", path)
	}

	out, err := engine.Compile()
	if err != nil {
		return errors.Wrapf(err, "compiling %s", path)
	}

	dest := strings.TrimSuffix(path, ".jack") + ".vm"
	if err := os.WriteFile(dest, []byte(out), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", dest)
	}

	logger.Infof("wrote %s", dest)
	return nil
}

// translateDir compiles every *.jack file in dir, non-recursively, in
// directory-enumeration order. It continues past a failing file and
// reports a combined error if any file failed.
func translateDir(dir string, logger *logrus.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, "reading directory %s", dir)
	}

	var failures []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jack") {
			continue
		}

		full := filepath.Join(dir, entry.Name())
		if err := translateFile(full, logger); err != nil {
			logger.Warnf("failed to compile %s: %s", full, err)
			failures = append(failures, entry.Name())
			continue
		}
	}

	if len(failures) > 0 {
		return errors.Errorf("%d file(s) failed to compile: %s", len(failures), strings.Join(failures, ", "))
	}
	return nil
}
