package idlist

import "github.com/deploymenttheory/go-shelllink/pkg/shelllink/lnkerr"

type state int

const (
	stateStart state = iota
	stateRoot
	stateDrive
	stateFolder
	stateFile
)

// Validate checks the entry order Root(MyComputer), Drive, then any number
// of Folder or File entries with File only in last position.
func (l *IDList) Validate() error {
	if l == nil || len(l.Entries) == 0 {
		return ErrListEmpty
	}

	s := stateStart
	for _, e := range l.Entries {
		var err error
		if s, err = step(s, e); err != nil {
			return err
		}
	}

	if s == stateRoot {
		return ErrMissingDrive
	}
	return nil
}

func step(s state, e Entry) (state, error) {
	switch s {
	case stateStart:
		root, ok := e.(Root)
		if !ok {
			return s, ErrMissingRoot
		}
		if root.Location != MyComputer {
			return s, lnkerr.Invalid(ErrUnsupportedRootType, root.Location.String())
		}
		return stateRoot, nil
	case stateRoot:
		if _, ok := e.(Drive); !ok {
			return s, ErrMissingDrive
		}
		return stateDrive, nil
	case stateDrive, stateFolder:
		switch e.(type) {
		case Folder:
			return stateFolder, nil
		case File:
			return stateFile, nil
		}
		if s == stateDrive {
			return s, ErrInvalidAfterDrive
		}
		return s, ErrInvalidAfterFolder
	default:
		return s, ErrAnyAfterFile
	}
}
