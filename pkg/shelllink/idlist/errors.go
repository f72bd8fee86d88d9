package idlist

import "github.com/deploymenttheory/go-shelllink/pkg/shelllink/lnkerr"

// Item decoding errors
var (
	ErrInvalidEntryType     = lnkerr.New(lnkerr.ErrInvalidValue, "invalid id list entry type")
	ErrUnsupportedEntryType = lnkerr.New(lnkerr.ErrUnsupported, "unsupported id list entry type")
	ErrInvalidRootType      = lnkerr.New(lnkerr.ErrInvalidValue, "invalid root location guid")
	ErrInvalidDrive         = lnkerr.New(lnkerr.ErrInvalidValue, "invalid drive entry")
	ErrUWPUnsupported       = lnkerr.New(lnkerr.ErrUnsupported, "uwp application entries are not supported")
	ErrExtensionFields      = lnkerr.New(lnkerr.ErrInvalidValue, "entry extension version cannot hold its fields")
)

// Ordering errors, one per violated transition
var (
	ErrListEmpty           = lnkerr.New(lnkerr.ErrGrammar, "id list is empty")
	ErrMissingRoot         = lnkerr.New(lnkerr.ErrGrammar, "id list does not start with a root entry")
	ErrUnsupportedRootType = lnkerr.New(lnkerr.ErrUnsupported, "only My Computer root entries are supported")
	ErrMissingDrive        = lnkerr.New(lnkerr.ErrGrammar, "root entry is not followed by a drive")
	ErrInvalidAfterDrive   = lnkerr.New(lnkerr.ErrGrammar, "drive entry must be followed by a folder or file")
	ErrInvalidAfterFolder  = lnkerr.New(lnkerr.ErrGrammar, "folder entry must be followed by a folder or file")
	ErrAnyAfterFile        = lnkerr.New(lnkerr.ErrGrammar, "file entry must be the last entry")
)
