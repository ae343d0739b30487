package dicom

import (
	"fmt"
	"os"
)

// preambleLength is the fixed zero-filled region before the DICM marker.
const preambleLength = 128

// magicDICM marks a conformant Part 10 file at offset 128.
var magicDICM = []byte("DICM")

// File couples a Part 10 file meta group with its main dataset.
type File struct {
	// MediaStorageSOPClassUID identifies the stored object type, e.g. MR
	// Image Storage or Media Storage Directory.
	MediaStorageSOPClassUID string
	// MediaStorageSOPInstanceUID matches the dataset's SOP instance identity.
	MediaStorageSOPInstanceUID string
	Dataset                    Dataset
}

// Encode serializes the complete file: 128-byte preamble, DICM marker, the
// file meta group (with a computed group length) and the main dataset.
func (f *File) Encode() ([]byte, error) {
	meta, err := f.encodeFileMeta()
	if err != nil {
		return nil, err
	}

	body, err := f.Dataset.Encode()
	if err != nil {
		return nil, err
	}

	out := make([]byte, preambleLength, preambleLength+4+len(meta)+len(body))
	out = append(out, magicDICM...)
	out = append(out, meta...)
	out = append(out, body...)
	return out, nil
}

// encodeFileMeta builds the group 0002 elements. The group length element
// (0002,0000) carries the byte count of everything in the group after itself,
// so the remainder is encoded first.
func (f *File) encodeFileMeta() ([]byte, error) {
	group := Dataset{}
	group.Add(TagFileMetaInformationVersion, VROtherByte, []byte{0x00, 0x01})
	group.Add(TagMediaStorageSOPClassUID, VRUniqueIdentifier, f.MediaStorageSOPClassUID)
	group.Add(TagMediaStorageSOPInstanceUID, VRUniqueIdentifier, f.MediaStorageSOPInstanceUID)
	group.Add(TagTransferSyntaxUID, VRUniqueIdentifier, ExplicitVRLittleEndianUID)
	group.Add(TagImplementationClassUID, VRUniqueIdentifier, ImplementationClassUID)

	rest, err := group.Encode()
	if err != nil {
		return nil, err
	}

	lengthElem := Dataset{}
	lengthElem.Add(TagFileMetaInformationGroupLength, VRUnsignedLong, uint32(len(rest)))
	head, err := lengthElem.Encode()
	if err != nil {
		return nil, err
	}

	return append(head, rest...), nil
}

// WriteFile encodes f and writes it to filename. The file is closed on all
// paths; a write or close failure surfaces as the returned error so callers
// never mistake a truncated file for a complete one.
func WriteFile(filename string, f *File) error {
	data, err := f.Encode()
	if err != nil {
		return err
	}

	out, err := os.Create(filename)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return out.Close()
}
