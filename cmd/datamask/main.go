// Command datamask masks sensitive values in a JSON document.
//
// Usage:
//
//	datamask [-config profile.yaml] [-in file.json] [-fields a.b,c] [-v]
//
// The document is read from stdin unless -in is given and the masked document is
// written to stdout as indented JSON, keeping key order. Warnings go to stderr.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/code19m/errx"
	"github.com/creasty/defaults"
	"github.com/samber/lo"

	"github.com/rise-and-shine/datamask/cfgloader"
	"github.com/rise-and-shine/datamask/datamask"
	"github.com/rise-and-shine/datamask/logger"
	"github.com/rise-and-shine/datamask/val"
	"github.com/rise-and-shine/datamask/value"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		logger.Fatalx(err)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("datamask", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "masking profile (YAML)")
	inPath := fs.String("in", "", "input JSON file, stdin when empty")
	fields := fs.String("fields", "", "comma separated paths, overrides the profile fields")
	verbose := fs.Bool("v", false, "log the loaded profile")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return errx.Wrap(err)
	}

	profile, err := loadProfile(*configPath)
	if err != nil {
		return err
	}
	if *fields != "" {
		profile.Fields = lo.Compact(lo.Map(strings.Split(*fields, ","), func(f string, _ int) string {
			return strings.TrimSpace(f)
		}))
	}

	log, err := logger.New(profile.Logger, logger.WithOutput(stderr))
	if err != nil {
		return errx.Wrap(err)
	}
	defer func() { _ = log.Sync() }()

	if *verbose {
		cfgloader.Print(log, profile)
	}

	input, err := readInput(*inPath, stdin)
	if err != nil {
		return err
	}

	dm := datamask.New(profile.dataMaskingOptions(log)...)
	masked, err := dm.Erase(input, profile.eraseOptions()...)
	if err != nil {
		return errx.Wrap(err)
	}

	out, err := value.MarshalJSONIndent(masked, "", "  ")
	if err != nil {
		return errx.Wrap(err)
	}
	if _, err = fmt.Fprintln(stdout, string(out)); err != nil {
		return errx.Wrap(err)
	}
	return nil
}

func loadProfile(path string) (Profile, error) {
	if path != "" {
		return cfgloader.Load[Profile](path, cfgloader.WithSilent())
	}

	var p Profile
	if err := defaults.Set(&p); err != nil {
		return p, errx.Wrap(err)
	}
	if err := val.ValidateSchema(p); err != nil {
		return p, errx.Wrap(err)
	}
	return p, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errx.Wrap(err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"path": path}))
	}
	return data, nil
}
