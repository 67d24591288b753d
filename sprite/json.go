package sprite

import (
	"encoding/json"
	"os"

	"atlas-repacker/lfile"
	"github.com/pkg/errors"
)

// Marshal encodes records as an indented JSON array.
func Marshal(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	return json.MarshalIndent(records, "", "  ")
}

// UnmarshalJSON fills a missing origin with DefaultOrigin and rebuilds the
// end corner from start and size. A missing size is taken from the end corner.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	decoded := plain{Origin: DefaultOrigin}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	if decoded.Width == 0 {
		decoded.Width = decoded.EndX - decoded.StartX
	}
	if decoded.Height == 0 {
		decoded.Height = decoded.EndY - decoded.StartY
	}
	record := New(decoded.Name, decoded.StartX, decoded.StartY, decoded.Width, decoded.Height)
	record.Origin = decoded.Origin
	*r = record
	return nil
}

func Unmarshal(data []byte) ([]Record, error) {
	records := []Record{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, "sprite.Unmarshal error")
	}
	return records, nil
}

func Import(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "sprite.Import error: path=%s", path)
	}
	return Unmarshal(data)
}

func Export(path string, records []Record) error {
	data, err := Marshal(records)
	if err != nil {
		return errors.Wrap(err, "sprite.Export error")
	}
	return lfile.WriteAtomic(path, data, 0o644)
}
