package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Amr-9/BeautyHunter/pkg/hdkey"
	"github.com/Amr-9/BeautyHunter/pkg/keypair"
	"github.com/Amr-9/BeautyHunter/pkg/oracle"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tyler-smith/go-bip39"
)

var errDeriveSource = errors.New("exactly one of --mnemonic or --xprv is required")

type deriveOptions struct {
	mnemonic string
	xprv     string
	path     string
	legacy   bool
	contract string
	hash     string
}

func newDeriveCmd() *cobra.Command {
	opts := &deriveOptions{}
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive the keys of a mnemonic or extended private key",
		Long: `Derives the node at --path from a BIP39 mnemonic or a serialized extended
private key and prints it along with the Ed25519 keypair it seeds. With
--contract the account id of that keypair is printed too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDerive(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.mnemonic, "mnemonic", "", "BIP39 mnemonic phrase")
	flags.StringVar(&opts.xprv, "xprv", "", "serialized extended private key")
	flags.StringVar(&opts.path, "path", hdkey.DefaultPathString, "derivation path, relative to --xprv when given")
	flags.BoolVar(&opts.legacy, "legacy-derivation", false, "strip leading zero bytes of hardened parent keys")
	flags.StringVar(&opts.contract, "contract", "", "contract template image used to compute the account id")
	flags.StringVar(&opts.hash, "hash", string(oracle.SHA256), "outer account id hash: sha256, sha3-256 or keccak256")
	return cmd
}

func runDerive(cmd *cobra.Command, opts *deriveOptions) error {
	if (opts.mnemonic == "") == (opts.xprv == "") {
		return errDeriveSource
	}

	pathString := opts.path
	if opts.xprv != "" && !cmd.Flags().Changed("path") {
		pathString = "m"
	}
	path, err := hdkey.ParsePath(pathString)
	if err != nil {
		return err
	}

	scheme := hdkey.Standard
	if opts.legacy {
		scheme = hdkey.Legacy
	}

	var root *hdkey.Node
	if opts.mnemonic != "" {
		phrase := strings.Join(strings.Fields(opts.mnemonic), " ")
		if !bip39.IsMnemonicValid(phrase) {
			return errors.Wrap(hdkey.ErrKeyDecode, "invalid mnemonic")
		}
		root, err = hdkey.NewMasterFromMnemonic(phrase)
	} else {
		root, err = hdkey.Parse(opts.xprv)
	}
	if err != nil {
		return err
	}

	node, err := root.DerivePathWithScheme(path, scheme)
	if err != nil {
		return err
	}
	publicKey, err := node.PublicKey()
	if err != nil {
		return err
	}
	kp := keypair.FromScalar(node.PrivateKey)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "path:           %s (%s)\n", path, scheme)
	fmt.Fprintf(out, "xprv:           %s\n", node)
	fmt.Fprintf(out, "private key:    %s\n", hex.EncodeToString(node.PrivateKey[:]))
	fmt.Fprintf(out, "public key:     %s\n", hex.EncodeToString(publicKey[:]))
	fmt.Fprintf(out, "ed25519 public: %s\n", kp.PublicHex())
	fmt.Fprintf(out, "ed25519 secret: %s\n", kp.SecretHex())

	if opts.contract == "" {
		return nil
	}
	hash, err := oracle.ParseHash(opts.hash)
	if err != nil {
		return err
	}
	template, err := oracle.Load(opts.contract, hash)
	if err != nil {
		return err
	}
	accountID, err := template.AccountID(kp.Public[:])
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "account id:     %s\n", accountID)
	return nil
}
