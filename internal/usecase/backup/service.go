// Package backup exports and imports the deck as NDJSON. Each line is a
// typed record; the first line carries format metadata so imports can
// reject files written by an incompatible version.
package backup

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/voxlearn/vox/internal/entity"
	"github.com/voxlearn/vox/internal/repository"
)

const formatVersion = 1

var ErrBadFormat = errors.New("backup: unsupported format")

type Service struct {
	store repository.CardStore
	clock func() time.Time
}

// NewService constructs a backup service bound to the card store.
func NewService(store repository.CardStore) *Service {
	return &Service{store: store, clock: time.Now}
}

type line struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type metaPayload struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Cards      int       `json:"cards"`
}

type cardPayload struct {
	Item   entity.Item             `json:"item"`
	Record entity.SchedulingRecord `json:"record"`
}

// Export writes the whole deck to w, one card per line, scheduling state
// included.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	pairs, err := s.store.ListItemsWithRecords(ctx)
	if err != nil {
		return fmt.Errorf("backup: load deck: %w", err)
	}

	buf := bufio.NewWriter(w)
	if err := writeLine(buf, "meta", metaPayload{
		Version:    formatVersion,
		ExportedAt: s.clock().UTC(),
		Cards:      len(pairs),
	}); err != nil {
		return err
	}

	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeLine(buf, "card", cardPayload{Item: pair.Item, Record: pair.Record}); err != nil {
			return err
		}
	}
	return buf.Flush()
}

// Import reads an export stream and recreates its cards. Cards whose front
// already exists in the deck are skipped rather than duplicated. Returns the
// number of cards imported.
func (s *Service) Import(ctx context.Context, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, fmt.Errorf("backup: read meta line: %w", err)
		}
		return 0, fmt.Errorf("%w: empty stream", ErrBadFormat)
	}
	meta, err := parseMeta(scanner.Bytes())
	if err != nil {
		return 0, err
	}
	if meta.Version != formatVersion {
		return 0, fmt.Errorf("%w: version %d", ErrBadFormat, meta.Version)
	}

	imported := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return imported, err
		}

		var ln line
		if err := json.Unmarshal(scanner.Bytes(), &ln); err != nil {
			return imported, fmt.Errorf("%w: %v", ErrBadFormat, err)
		}
		if ln.Type != "card" {
			continue
		}

		var card cardPayload
		if err := json.Unmarshal(ln.Payload, &card); err != nil {
			return imported, fmt.Errorf("%w: %v", ErrBadFormat, err)
		}

		existing, err := s.store.FindByFront(ctx, card.Item.Front)
		if err != nil {
			return imported, err
		}
		if existing != nil {
			continue
		}

		card.Record.ItemID = card.Item.ID
		if _, err := s.store.CreateItem(ctx, &card.Item, card.Record); err != nil {
			return imported, fmt.Errorf("backup: import card %s: %w", card.Item.Front, err)
		}
		imported++
	}
	if err := scanner.Err(); err != nil {
		return imported, fmt.Errorf("backup: read stream: %w", err)
	}
	return imported, nil
}

func parseMeta(raw []byte) (metaPayload, error) {
	var ln line
	if err := json.Unmarshal(raw, &ln); err != nil {
		return metaPayload{}, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	if ln.Type != "meta" {
		return metaPayload{}, fmt.Errorf("%w: first line must be meta", ErrBadFormat)
	}
	var meta metaPayload
	if err := json.Unmarshal(ln.Payload, &meta); err != nil {
		return metaPayload{}, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	return meta, nil
}

func writeLine(w io.Writer, typ string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("backup: encode %s: %w", typ, err)
	}
	out, err := json.Marshal(line{Type: typ, Payload: raw})
	if err != nil {
		return fmt.Errorf("backup: encode %s line: %w", typ, err)
	}
	if _, err := w.Write(append(out, '\n')); err != nil {
		return fmt.Errorf("backup: write %s line: %w", typ, err)
	}
	return nil
}
