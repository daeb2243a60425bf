package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/Amr-9/BeautyHunter/internal/config"
	"github.com/Amr-9/BeautyHunter/pkg/beauty"
	"github.com/Amr-9/BeautyHunter/pkg/sink"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// codeFinder is implemented by backends with an index on the beauty code.
type codeFinder interface {
	FindByCode(code beauty.Code) ([]sink.Record, error)
}

type listOptions struct {
	code    string
	secrets bool
}

func newListCmd() *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list [DESTINATION]",
		Short: "List the matches stored in a sink",
		Long: `Prints the matches stored at DESTINATION, or at --output when it is omitted,
one per line: code, account id, public key and seed phrase.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var destination string
			if len(args) > 0 {
				destination = args[0]
			} else {
				if err := config.Load(); err != nil {
					return err
				}
				destination = config.GetOutput()
			}
			return runList(cmd, destination, opts)
		},
	}

	cmd.Flags().StringVar(&opts.code, "code", "", "only list this code, by number or name")
	cmd.Flags().BoolVar(&opts.secrets, "secrets", false, "print the secret keys too")
	return cmd
}

func runList(cmd *cobra.Command, destination string, opts *listOptions) error {
	backend, err := sink.OpenBackend(context.Background(), destination)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.WithError(err).Warn("closing sink")
		}
	}()

	records, err := readRecords(backend, opts.code)
	if err != nil {
		return err
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Code != records[j].Code {
			return records[i].Code > records[j].Code
		}
		return records[i].AccountID < records[j].AccountID
	})

	out := cmd.OutOrStdout()
	for _, r := range records {
		fmt.Fprintf(out, "%s\t%s\t%s\t%s", r.Code, r.AccountID, r.PublicKey, r.SeedPhrase)
		if opts.secrets {
			fmt.Fprintf(out, "\t%s", r.SecretKey)
		}
		fmt.Fprintln(out)
	}
	return nil
}

func readRecords(backend sink.Backend, codeName string) ([]sink.Record, error) {
	reader, ok := backend.(sink.Reader)
	if !ok {
		return nil, errors.Errorf("%T can not be listed", backend)
	}
	if codeName == "" {
		return reader.ReadAll()
	}

	code, err := parseCode(codeName)
	if err != nil {
		return nil, err
	}
	if finder, ok := backend.(codeFinder); ok {
		return finder.FindByCode(code)
	}

	all, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	records := all[:0]
	for _, r := range all {
		if r.Code == code {
			records = append(records, r)
		}
	}
	return records, nil
}
