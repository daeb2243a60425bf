package cpu

import (
	"io"

	"github.com/Amr-9/BeautyHunter/pkg/generator"
	"github.com/Amr-9/BeautyHunter/pkg/hdkey"
	"github.com/Amr-9/BeautyHunter/pkg/keypair"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
)

// mnemonicEntropySize yields 12-word phrases.
const mnemonicEntropySize = 16

// accountFactory produces the candidates of one worker. AccountID is left
// empty for the oracle to fill in.
type accountFactory interface {
	next() (generator.Candidate, error)
}

func newAccountFactory(config *generator.Config, rng io.Reader) accountFactory {
	if config.Mode == generator.Mnemonic {
		path := config.Path
		if path == nil {
			path = hdkey.DefaultPath
		}
		return &mnemonicFactory{rng: rng, path: path, scheme: config.Scheme, tag: config.Tag}
	}
	return &fastFactory{rng: rng, tag: config.Tag}
}

// fastFactory samples a random Ed25519 seed per candidate.
type fastFactory struct {
	rng io.Reader
	tag uint8
}

func (f *fastFactory) next() (generator.Candidate, error) {
	kp, err := keypair.Generate(f.rng)
	if err != nil {
		return generator.Candidate{}, err
	}
	return generator.Candidate{Keypair: kp, Tag: f.tag}, nil
}

// mnemonicFactory draws a fresh phrase per candidate and derives the keypair
// at path, so every match can be recovered from its seed phrase.
type mnemonicFactory struct {
	rng     io.Reader
	path    hdkey.Path
	scheme  hdkey.Scheme
	tag     uint8
	entropy [mnemonicEntropySize]byte
}

func (f *mnemonicFactory) next() (generator.Candidate, error) {
	if _, err := io.ReadFull(f.rng, f.entropy[:]); err != nil {
		return generator.Candidate{}, errors.Wrap(err, "reading mnemonic entropy")
	}

	phrase, err := bip39.NewMnemonic(f.entropy[:])
	if err != nil {
		return generator.Candidate{}, errors.Wrap(err, "creating mnemonic")
	}

	kp, err := deriveKeypair(phrase, f.path, f.scheme)
	if err != nil {
		return generator.Candidate{}, err
	}

	return generator.Candidate{Keypair: kp, SeedPhrase: phrase, Tag: f.tag}, nil
}

func deriveKeypair(phrase string, path hdkey.Path, scheme hdkey.Scheme) (keypair.Keypair, error) {
	master, err := hdkey.NewMasterFromMnemonic(phrase)
	if err != nil {
		return keypair.Keypair{}, err
	}

	node, err := master.DerivePathWithScheme(path, scheme)
	if err != nil {
		return keypair.Keypair{}, err
	}

	return keypair.FromScalar(node.PrivateKey), nil
}
