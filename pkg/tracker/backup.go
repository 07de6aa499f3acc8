package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vvheritagevv/Knee-Rehab/pkg/rehab"
)

var errEmptyBackup = errors.New("backup has neither state nor template")

// Backup is the export file: the persisted state and template plus a timestamp.
type Backup struct {
	ExportedAt time.Time       `json:"exportedAt"`
	State      *rehab.State    `json:"state,omitempty"`
	Template   *rehab.Template `json:"template,omitempty"`
}

// importFile keeps the parts raw so that a missing part can be told apart from an
// empty one.
type importFile struct {
	State    json.RawMessage `json:"state"`
	Template json.RawMessage `json:"template"`
}

// BackupFilename is the suggested file name for an export made on date.
func BackupFilename(date string) string {
	return fmt.Sprintf("knee-rehab-backup-%s.json", date)
}

// Export serialises the state and template as indented JSON.
func (t *Tracker) Export(ctx context.Context) ([]byte, error) {
	t.mu.Lock()
	state := t.state.Clone()
	template := t.template.Clone()
	t.mu.Unlock()

	backup := Backup{
		ExportedAt: t.now().UTC(),
		State:      &state,
		Template:   &template,
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error encoding backup: %w", err)
	}

	log.Info().Int("logs", len(state.Logs)).Msg("exported backup")

	return data, nil
}

// Import replaces the state, the template, or both with the ones in a backup file.
// Nothing is written unless every part present in the file is valid.
func (t *Tracker) Import(ctx context.Context, raw []byte) error {
	var file importFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return &rehab.ParseError{Source: "backup", Err: err}
	}

	hasState := present(file.State)
	hasTemplate := present(file.Template)

	if !hasState && !hasTemplate {
		return &rehab.ParseError{Source: "backup", Err: errEmptyBackup}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	state := t.state
	template := t.template

	if hasState {
		decoded, err := decodeState(file.State)
		if err != nil {
			return err
		}

		state = decoded
	}

	if hasTemplate {
		parsed, err := rehab.ParseTemplate(file.Template)
		if err != nil {
			return err
		}

		template = parsed
	}

	if err := t.apply(ctx, state, template); err != nil {
		return err
	}

	log.Info().Bool("state", hasState).Bool("template", hasTemplate).Msg("imported backup")

	return nil
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)

	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
