package plan

import (
	"io"

	"github.com/arthur-debert/trename/pkg/errors"
	"github.com/arthur-debert/trename/pkg/logging"
	"github.com/arthur-debert/trename/pkg/types"
	"github.com/atotto/clipboard"
)

// readClipboard is swapped in tests.
var readClipboard = clipboard.ReadAll

// FromFile reads and decodes the plan at path.
func FromFile(fsys types.FS, path string) (types.RenameTree, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return types.RenameTree{}, errors.Wrapf(err, errors.ErrPlanRead, "failed to read plan %s", path)
	}
	logger := logging.GetLogger("plan")
	logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("Read plan file")
	return Decode(data)
}

// FromReader decodes a plan read from r, typically standard input.
func FromReader(r io.Reader) (types.RenameTree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return types.RenameTree{}, errors.Wrap(err, errors.ErrPlanRead, "failed to read plan")
	}
	return Decode(data)
}

// FromClipboard decodes the plan currently held in the system clipboard.
func FromClipboard() (types.RenameTree, error) {
	if clipboard.Unsupported {
		return types.RenameTree{}, errors.New(errors.ErrPlanRead, "clipboard is not available on this system")
	}
	text, err := readClipboard()
	if err != nil {
		return types.RenameTree{}, errors.Wrap(err, errors.ErrPlanRead, "failed to read clipboard")
	}
	logger := logging.GetLogger("plan")
	logger.Debug().Int("bytes", len(text)).Msg("Read plan from clipboard")
	return Decode([]byte(text))
}
