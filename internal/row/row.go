// Package row encodes the engine's single fixed-schema record: an id plus a
// name and an email, packed into a compile-time-constant byte block.
package row

import (
	"encoding/binary"
	"strings"

	"github.com/pkg/errors"
)

const (
	idSize    = 8
	nameSize  = 32
	emailSize = 255
	// Size is the byte length of a serialized row.
	Size = idSize + nameSize + emailSize

	idOffset    = 0
	nameOffset  = idOffset + idSize
	emailOffset = nameOffset + nameSize
)

// ErrTooLong is returned when a name or email does not fit its column.
var ErrTooLong = errors.New("row: value too long for column")

// Row is the in-memory form of one record.
type Row struct {
	ID    uint64
	Name  string
	Email string
}

// Serialize writes r into dst, which must be exactly Size bytes.
func Serialize(r Row, dst []byte) error {
	if len(dst) != Size {
		return errors.Errorf("row: dst length %d, want %d", len(dst), Size)
	}
	if len(r.Name) > nameSize {
		return errors.Wrap(ErrTooLong, "name")
	}
	if len(r.Email) > emailSize {
		return errors.Wrap(ErrTooLong, "email")
	}
	for i := range dst {
		dst[i] = 0
	}
	binary.LittleEndian.PutUint64(dst[idOffset:idOffset+idSize], r.ID)
	copy(dst[nameOffset:nameOffset+nameSize], r.Name)
	copy(dst[emailOffset:emailOffset+emailSize], r.Email)
	return nil
}

// Deserialize reads a Row out of src, which must be exactly Size bytes.
func Deserialize(src []byte) (Row, error) {
	if len(src) != Size {
		return Row{}, errors.Errorf("row: src length %d, want %d", len(src), Size)
	}
	id := binary.LittleEndian.Uint64(src[idOffset : idOffset+idSize])
	name := trimNulls(src[nameOffset : nameOffset+nameSize])
	email := trimNulls(src[emailOffset : emailOffset+emailSize])
	return Row{ID: id, Name: name, Email: email}, nil
}

func trimNulls(b []byte) string {
	if i := strings.IndexByte(string(b), 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
