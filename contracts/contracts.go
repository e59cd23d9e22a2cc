/*
Package contracts provides access to compiled Tunichain contracts.

Contracts are built with `make all` into <name>/contract.nef and
<name>/manifest.json files next to their sources. Read loads them from any
fs.FS, usually os.DirFS pointing to this directory.
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

const (
	registryDir   = "registry"
	invoiceDir    = "invoice"
	paymentDir    = "payment"
	vatControlDir = "vatcontrol"

	nefName      = "contract.nef"
	manifestName = "manifest.json"
)

// Contract groups information about Neo contract stored in the current package.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Set is a complete set of Tunichain contracts.
type Set struct {
	Registry          Contract
	InvoiceValidation Contract
	PaymentRegistry   Contract
	VATControl        Contract
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")

	// deployment order, every contract depends only on the preceding ones.
	dirs = []string{
		registryDir,
		invoiceDir,
		paymentDir,
		vatControlDir,
	}
)

// Read reads all Tunichain contracts from the given file system.
func Read(src fs.FS) (Set, error) {
	var res Set

	cs, err := read(src, dirs)
	if err != nil {
		return res, err
	}

	res.Registry = cs[0]
	res.InvoiceValidation = cs[1]
	res.PaymentRegistry = cs[2]
	res.VATControl = cs[3]

	return res, nil
}

func read(src fs.FS, dirs []string) ([]Contract, error) {
	var res = make([]Contract, 0, len(dirs))

	for i := range dirs {
		c, err := readContractFromDir(src, dirs[i])
		if err != nil {
			return nil, fmt.Errorf("read contract %s: %w", dirs[i], err)
		}

		res = append(res, c)
	}

	return res, nil
}

func readContractFromDir(src fs.FS, dir string) (Contract, error) {
	var c Contract

	// fs.FS paths always use "/", so filepath.Join() is not applicable.
	fNEF, err := src.Open(dir + "/" + nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := src.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidManifest, err)
	}

	return c, nil
}
