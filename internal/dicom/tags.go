// Package dicom implements synthetic DICOM MRI series generation: the
// explicit-VR little-endian encoder, the size-to-dimension solver, study
// metadata synthesis and the DICOMDIR index builder.
package dicom

import "fmt"

// Tag identifies a DICOM data element by (group, element).
type Tag struct {
	Group   uint16
	Element uint16
}

// String returns the tag in (GGGG,EEEE) format.
func (t Tag) String() string {
	return fmt.Sprintf("(%04x,%04x)", t.Group, t.Element)
}

// Less orders tags by group, then element number.
func (t Tag) Less(o Tag) bool {
	if t.Group != o.Group {
		return t.Group < o.Group
	}
	return t.Element < o.Element
}

// File meta group (0002).
var (
	TagFileMetaInformationGroupLength = Tag{0x0002, 0x0000}
	TagFileMetaInformationVersion     = Tag{0x0002, 0x0001}
	TagMediaStorageSOPClassUID        = Tag{0x0002, 0x0002}
	TagMediaStorageSOPInstanceUID     = Tag{0x0002, 0x0003}
	TagTransferSyntaxUID              = Tag{0x0002, 0x0010}
	TagImplementationClassUID         = Tag{0x0002, 0x0012}
)

// DICOMDIR directory records (0004).
var (
	TagFileSetID                           = Tag{0x0004, 0x1130}
	TagOffsetOfFirstDirectoryRecord       = Tag{0x0004, 0x1200}
	TagOffsetOfLastDirectoryRecord        = Tag{0x0004, 0x1202}
	TagFileSetConsistencyFlag             = Tag{0x0004, 0x1212}
	TagDirectoryRecordSequence            = Tag{0x0004, 0x1220}
	TagOffsetOfNextDirectoryRecord        = Tag{0x0004, 0x1400}
	TagRecordInUseFlag                    = Tag{0x0004, 0x1410}
	TagOffsetOfLowerLevelDirectoryEntity  = Tag{0x0004, 0x1420}
	TagDirectoryRecordType                = Tag{0x0004, 0x1430}
	TagReferencedFileID                   = Tag{0x0004, 0x1500}
	TagReferencedSOPClassUIDInFile        = Tag{0x0004, 0x1510}
	TagReferencedSOPInstanceUIDInFile     = Tag{0x0004, 0x1511}
	TagReferencedTransferSyntaxUIDInFile  = Tag{0x0004, 0x1512}
)

// Main dataset.
var (
	TagSOPClassUID              = Tag{0x0008, 0x0016}
	TagSOPInstanceUID           = Tag{0x0008, 0x0018}
	TagStudyDate                = Tag{0x0008, 0x0020}
	TagStudyTime                = Tag{0x0008, 0x0030}
	TagAccessionNumber          = Tag{0x0008, 0x0050}
	TagModality                 = Tag{0x0008, 0x0060}
	TagManufacturer             = Tag{0x0008, 0x0070}
	TagStudyDescription         = Tag{0x0008, 0x1030}
	TagSeriesDescription        = Tag{0x0008, 0x103E}
	TagManufacturerModelName    = Tag{0x0008, 0x1090}
	TagPatientName              = Tag{0x0010, 0x0010}
	TagPatientID                = Tag{0x0010, 0x0020}
	TagPatientBirthDate         = Tag{0x0010, 0x0030}
	TagPatientSex               = Tag{0x0010, 0x0040}
	TagSequenceName             = Tag{0x0018, 0x0024}
	TagSliceThickness           = Tag{0x0018, 0x0050}
	TagRepetitionTime           = Tag{0x0018, 0x0080}
	TagEchoTime                 = Tag{0x0018, 0x0081}
	TagImagingFrequency         = Tag{0x0018, 0x0084}
	TagMagneticFieldStrength    = Tag{0x0018, 0x0087}
	TagSpacingBetweenSlices     = Tag{0x0018, 0x0088}
	TagFlipAngle                = Tag{0x0018, 0x1314}
	TagStudyInstanceUID         = Tag{0x0020, 0x000D}
	TagSeriesInstanceUID        = Tag{0x0020, 0x000E}
	TagStudyID                  = Tag{0x0020, 0x0010}
	TagSeriesNumber             = Tag{0x0020, 0x0011}
	TagInstanceNumber           = Tag{0x0020, 0x0013}
	TagSamplesPerPixel          = Tag{0x0028, 0x0002}
	TagPhotometricInterpretation = Tag{0x0028, 0x0004}
	TagRows                     = Tag{0x0028, 0x0010}
	TagColumns                  = Tag{0x0028, 0x0011}
	TagPixelSpacing             = Tag{0x0028, 0x0030}
	TagBitsAllocated            = Tag{0x0028, 0x0100}
	TagBitsStored               = Tag{0x0028, 0x0101}
	TagHighBit                  = Tag{0x0028, 0x0102}
	TagPixelRepresentation      = Tag{0x0028, 0x0103}
	TagWindowCenter             = Tag{0x0028, 0x1050}
	TagWindowWidth              = Tag{0x0028, 0x1051}
	TagPixelData                = Tag{0x7FE0, 0x0010}
)

// itemTag delimits one item inside a sequence (SQ) value.
var itemTag = Tag{0xFFFE, 0xE000}

// Well-known UIDs used by the generator.
const (
	// ExplicitVRLittleEndianUID is the only transfer syntax this encoder emits.
	ExplicitVRLittleEndianUID = "1.2.840.10008.1.2.1"
	// MRImageStorageUID is the SOP class of every generated instance.
	MRImageStorageUID = "1.2.840.10008.5.1.4.1.1.4"
	// MediaStorageDirectoryUID is the SOP class of the DICOMDIR file.
	MediaStorageDirectoryUID = "1.2.840.10008.1.3.10"
	// ImplementationClassUID identifies this generator in file meta groups.
	ImplementationClassUID = "1.2.826.0.1.3680043.8.498.77.4"
)
