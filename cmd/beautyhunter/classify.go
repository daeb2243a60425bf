package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Amr-9/BeautyHunter/pkg/beauty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var errUnknownCode = errors.New("unknown beauty code")

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify ADDRESS...",
		Short: "Print the beauty code of account addresses",
		Long: `Classifies every argument the way the miner does. A workchain prefix such
as "0:" is ignored.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, address := range args {
				code := beauty.Classify(normalizeAddress(address))
				fmt.Fprintf(out, "%s\t%d\t%s\n", address, code, code)
			}
			return nil
		},
	}
}

func normalizeAddress(address string) string {
	if _, id, found := strings.Cut(address, ":"); found {
		address = id
	}
	return strings.ToLower(strings.TrimSpace(address))
}

// parseCode accepts a code number or its name.
func parseCode(s string) (beauty.Code, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n >= int(beauty.ClusteredChunks) && n <= int(beauty.SingleClass) {
			return beauty.Code(n), nil
		}
		return 0, errors.Wrapf(errUnknownCode, "%d", n)
	}
	for code := beauty.ClusteredChunks; code <= beauty.SingleClass; code++ {
		if strings.EqualFold(code.String(), s) {
			return code, nil
		}
	}
	return 0, errors.Wrapf(errUnknownCode, "%q", s)
}
