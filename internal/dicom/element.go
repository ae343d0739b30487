package dicom

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// VR (Value Representation) codes emitted by this encoder.
const (
	VRCodeString      = "CS"
	VRDate            = "DA"
	VRDecimalString   = "DS"
	VRIntegerString   = "IS"
	VRLongString      = "LO"
	VROtherByte       = "OB"
	VROtherWord       = "OW"
	VRPersonName      = "PN"
	VRSequence        = "SQ"
	VRShortString     = "SH"
	VRTime            = "TM"
	VRUniqueIdentifier = "UI"
	VRUnsignedLong    = "UL"
	VRUnsignedShort   = "US"
)

// longLengthVRs use the 4-byte length encoding with two reserved bytes.
// Everything else uses the 2-byte length form.
var longLengthVRs = map[string]bool{
	"OB": true, "OD": true, "OF": true, "OL": true, "OV": true,
	"OW": true, "SQ": true, "UC": true, "UN": true, "UR": true, "UT": true,
}

// maxElementLength is the largest encodable value length. 0xFFFFFFFF is
// reserved for the undefined-length marker.
const maxElementLength = 0xFFFFFFFE

var (
	// ErrPayloadTooLarge indicates a pixel-data payload that cannot fit the
	// 32-bit element length field.
	ErrPayloadTooLarge = errors.New("payload exceeds 32-bit element length capacity")
	// ErrEncoding indicates a structural encoding invariant violation.
	ErrEncoding = errors.New("dicom encoding failure")
)

// Element is a single DICOM data element awaiting encoding.
//
// Value holds one of: string, []string, uint16, uint32, []uint16, []byte,
// or []Dataset (sequence items).
type Element struct {
	Tag   Tag
	VR    string
	Value interface{}
}

// Dataset is an encodable collection of data elements.
type Dataset struct {
	Elements []Element
}

// Add appends an element to the dataset.
func (d *Dataset) Add(tag Tag, vr string, value interface{}) {
	d.Elements = append(d.Elements, Element{Tag: tag, VR: vr, Value: value})
}

// Encode serializes the dataset in explicit-VR little-endian form, emitting
// elements in ascending (group, element) order regardless of insertion order.
func (d *Dataset) Encode() ([]byte, error) {
	sorted := make([]Element, len(d.Elements))
	copy(sorted, d.Elements)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Tag.Less(sorted[j].Tag)
	})

	var out []byte
	for _, elem := range sorted {
		encoded, err := appendElement(out, elem)
		if err != nil {
			return nil, err
		}
		out = encoded
	}
	return out, nil
}

// appendElement encodes one element onto buf: 2-byte group, 2-byte element,
// 2-byte VR code, then either a 2-byte length or reserved(2)+length(4) for
// long VRs, followed by the even-padded value bytes.
func appendElement(buf []byte, elem Element) ([]byte, error) {
	value, err := encodeValue(elem)
	if err != nil {
		return nil, err
	}

	var header [8]byte
	binary.LittleEndian.PutUint16(header[0:2], elem.Tag.Group)
	binary.LittleEndian.PutUint16(header[2:4], elem.Tag.Element)
	if len(elem.VR) != 2 {
		return nil, fmt.Errorf("%w: element %s has invalid VR %q", ErrEncoding, elem.Tag, elem.VR)
	}
	header[4] = elem.VR[0]
	header[5] = elem.VR[1]

	if longLengthVRs[elem.VR] {
		if len(value) > maxElementLength {
			return nil, fmt.Errorf("%w: element %s value is %d bytes", ErrPayloadTooLarge, elem.Tag, len(value))
		}
		// Two reserved zero bytes, then the 32-bit length.
		buf = append(buf, header[:6]...)
		buf = append(buf, 0x00, 0x00)
		var length [4]byte
		binary.LittleEndian.PutUint32(length[:], uint32(len(value)))
		buf = append(buf, length[:]...)
	} else {
		if len(value) > 0xFFFF {
			return nil, fmt.Errorf("%w: element %s value of %d bytes exceeds the 16-bit length field", ErrEncoding, elem.Tag, len(value))
		}
		binary.LittleEndian.PutUint16(header[6:8], uint16(len(value)))
		buf = append(buf, header[:]...)
	}

	return append(buf, value...), nil
}

// encodeValue produces the even-length value bytes for an element. Text VRs
// pad with a trailing space; UI values pad with a NUL byte; binary values
// must already be even.
func encodeValue(elem Element) ([]byte, error) {
	switch v := elem.Value.(type) {
	case string:
		return padText(elem.VR, []byte(v)), nil
	case []string:
		return padText(elem.VR, []byte(strings.Join(v, "\\"))), nil
	case uint16:
		out := make([]byte, 2)
		binary.LittleEndian.PutUint16(out, v)
		return out, nil
	case uint32:
		out := make([]byte, 4)
		binary.LittleEndian.PutUint32(out, v)
		return out, nil
	case []uint16:
		out := make([]byte, 2*len(v))
		for i, sample := range v {
			binary.LittleEndian.PutUint16(out[2*i:], sample)
		}
		return out, nil
	case []byte:
		if len(v)%2 != 0 {
			return nil, fmt.Errorf("%w: element %s has odd binary length %d", ErrEncoding, elem.Tag, len(v))
		}
		return v, nil
	case []Dataset:
		return encodeItems(v)
	default:
		return nil, fmt.Errorf("%w: element %s has unsupported value type %T", ErrEncoding, elem.Tag, elem.Value)
	}
}

// padText pads a textual value to even length. DICOM UI values pad with NUL;
// all other text VRs pad with a space.
func padText(vr string, value []byte) []byte {
	if len(value)%2 == 0 {
		return value
	}
	if vr == VRUniqueIdentifier {
		return append(value, 0x00)
	}
	return append(value, ' ')
}

// encodeItems serializes sequence items, each framed by an (FFFE,E000) item
// header carrying an explicit length.
func encodeItems(items []Dataset) ([]byte, error) {
	var out []byte
	for i := range items {
		content, err := items[i].Encode()
		if err != nil {
			return nil, err
		}
		if len(content) > maxElementLength {
			return nil, fmt.Errorf("%w: sequence item of %d bytes", ErrPayloadTooLarge, len(content))
		}
		var header [8]byte
		binary.LittleEndian.PutUint16(header[0:2], itemTag.Group)
		binary.LittleEndian.PutUint16(header[2:4], itemTag.Element)
		binary.LittleEndian.PutUint32(header[4:8], uint32(len(content)))
		out = append(out, header[:]...)
		out = append(out, content...)
	}
	return out, nil
}
