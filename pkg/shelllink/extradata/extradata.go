// Package extradata decodes and encodes the chain of extra data blocks that
// ends a shell link. Each block is a u32 size, a u32 signature and a payload
// of size-8 bytes; a size of four or less terminates the chain.
package extradata

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/lnkerr"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/propstore"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/wire"
)

// Errors returned while decoding or encoding extra data blocks
var (
	ErrUnknownSignature      = lnkerr.New(lnkerr.ErrInvalidValue, "unknown extra data block signature")
	ErrBlockUnsupported      = lnkerr.New(lnkerr.ErrUnsupported, "extra data block not supported")
	ErrInvalidTrackerLength  = lnkerr.New(lnkerr.ErrInvalidValue, "invalid tracker block length")
	ErrInvalidTrackerVersion = lnkerr.New(lnkerr.ErrInvalidValue, "invalid tracker block version")
	ErrUnknownSpecialFolder  = lnkerr.New(lnkerr.ErrInvalidValue, "unknown special folder id")
	ErrUnknownKnownFolder    = lnkerr.New(lnkerr.ErrInvalidValue, "unknown known folder id")
)

const blockHeaderSize = 8

// BlockData is every extra data block of a link.
type BlockData struct {
	Console         *Console
	Tracker         *Tracker
	IconEnvironment *IconEnvironment
	SpecialFolders  []SpecialFolder
	KnownFolders    []KnownFolder
	PropertyStore   *propstore.Store
}

// Empty reports whether no block is present.
func (b *BlockData) Empty() bool {
	return b == nil || (b.Console == nil && b.Tracker == nil && b.IconEnvironment == nil &&
		len(b.SpecialFolders) == 0 && len(b.KnownFolders) == 0 && b.PropertyStore.Empty())
}

// Decode reads blocks up to and including the terminal block.
func Decode(r *wire.Reader) (*BlockData, error) {
	bd := &BlockData{}
	for {
		size, err := r.Uint32()
		if err != nil {
			return nil, fmt.Errorf("failed to read block size: %w", err)
		}
		if size <= 4 {
			return bd, nil
		}
		if size < blockHeaderSize {
			return nil, lnkerr.Invalid(fmt.Errorf("block size: %w", lnkerr.ErrInvalidValue), size)
		}

		raw, err := r.Uint32()
		if err != nil {
			return nil, fmt.Errorf("failed to read block signature: %w", err)
		}
		sig := Signature(raw)
		if !sig.Known() {
			return nil, lnkerr.Invalid(ErrUnknownSignature, raw)
		}

		payload, err := r.Sub(int(size) - blockHeaderSize)
		if err != nil {
			return nil, fmt.Errorf("failed to bound %s: %w", sig, err)
		}
		r.Logger().Debug("decoding extra data block",
			zap.Stringer("signature", sig),
			zap.Uint32("size", size),
			zap.Int("offset", payload.Offset()))

		if err := bd.decodeBlock(sig, payload); err != nil {
			return nil, fmt.Errorf("%s: %w", sig, err)
		}
		if err := payload.ExpectEOF(sig.String()); err != nil {
			return nil, err
		}
	}
}

func (bd *BlockData) decodeBlock(sig Signature, r *wire.Reader) (err error) {
	switch sig {
	case SigConsole:
		bd.Console, err = decodeConsole(r)
	case SigTracker:
		bd.Tracker, err = decodeTracker(r)
	case SigIconEnvironment:
		bd.IconEnvironment, err = decodeIconEnvironment(r)
	case SigSpecialFolder:
		var sf SpecialFolder
		if sf, err = decodeSpecialFolder(r); err == nil {
			bd.SpecialFolders = append(bd.SpecialFolders, sf)
		}
	case SigKnownFolder:
		var kf KnownFolder
		if kf, err = decodeKnownFolder(r); err == nil {
			bd.KnownFolders = append(bd.KnownFolders, kf)
		}
	case SigPropertyStore:
		if bd.PropertyStore == nil {
			bd.PropertyStore = &propstore.Store{}
		}
		err = bd.PropertyStore.Decode(r)
	default:
		err = lnkerr.Invalid(ErrBlockUnsupported, uint32(sig))
	}
	return err
}

// Encode writes every present block followed by the terminal block, in the
// order console, tracker, icon environment, special folders, known folders,
// property store.
func (bd *BlockData) Encode(w *wire.Writer) error {
	if bd != nil {
		if bd.Console != nil {
			if err := writeBlock(w, SigConsole, bd.Console.encode); err != nil {
				return err
			}
		}
		if bd.Tracker != nil {
			if err := writeBlock(w, SigTracker, bd.Tracker.encode); err != nil {
				return err
			}
		}
		if bd.IconEnvironment != nil {
			if err := writeBlock(w, SigIconEnvironment, bd.IconEnvironment.encode); err != nil {
				return err
			}
		}
		for _, sf := range bd.SpecialFolders {
			if err := writeBlock(w, SigSpecialFolder, sf.encode); err != nil {
				return err
			}
		}
		for _, kf := range bd.KnownFolders {
			if err := writeBlock(w, SigKnownFolder, kf.encode); err != nil {
				return err
			}
		}
		if !bd.PropertyStore.Empty() {
			if err := writeBlock(w, SigPropertyStore, bd.PropertyStore.Encode); err != nil {
				return err
			}
		}
	}
	w.Uint32(0)
	return nil
}

func writeBlock(w *wire.Writer, sig Signature, encode func(*wire.Writer) error) error {
	payload := w.Child()
	if err := encode(payload); err != nil {
		return fmt.Errorf("%s: %w", sig, err)
	}
	size, err := wire.Size32(payload.Len()+blockHeaderSize, sig.String())
	if err != nil {
		return err
	}
	w.Uint32(size)
	w.Uint32(uint32(sig))
	w.Raw(payload.Bytes())
	return nil
}
