package dicom

import (
	"fmt"
	"math/rand/v2"

	"github.com/tlacroix/dicomsynth/internal/util"
)

// Scanner is one plausible MR vendor/model/field-strength combination.
type Scanner struct {
	Manufacturer  string
	Model         string
	FieldStrength float64
}

// scanners is the fixed lookup table the metadata builder draws from.
var scanners = []Scanner{
	{Manufacturer: "SIEMENS", Model: "Avanto", FieldStrength: 1.5},
	{Manufacturer: "SIEMENS", Model: "Skyra", FieldStrength: 3.0},
	{Manufacturer: "GE MEDICAL SYSTEMS", Model: "Signa HDxt", FieldStrength: 1.5},
	{Manufacturer: "GE MEDICAL SYSTEMS", Model: "Discovery MR750", FieldStrength: 3.0},
	{Manufacturer: "PHILIPS", Model: "Achieva", FieldStrength: 1.5},
	{Manufacturer: "PHILIPS", Model: "Ingenia", FieldStrength: 3.0},
}

var sequenceNames = []string{"T1_MPRAGE", "T1_SE", "T2_FSE", "T2_FLAIR"}

// gyromagneticRatioMHzPerTesla converts field strength to proton imaging
// frequency (1.5T ≈ 63.87 MHz, 3.0T ≈ 127.74 MHz).
const gyromagneticRatioMHzPerTesla = 42.58

// StudyContext holds the identifiers and acquisition parameters shared by
// every instance generated in one run. Two instances belong to the same
// study/series iff they carry identical StudyUID/SeriesUID strings.
type StudyContext struct {
	StudyUID  string
	SeriesUID string

	PatientID        string
	PatientName      string
	PatientBirthDate string
	PatientSex       string

	StudyDate        string
	StudyTime        string
	StudyID          string
	AccessionNumber  string
	StudyDescription string

	SeriesNumber      int
	SeriesDescription string

	Scanner          Scanner
	ImagingFrequency float64

	EchoTime             float64
	RepetitionTime       float64
	FlipAngle            float64
	SliceThickness       float64
	SpacingBetweenSlices float64
	SequenceName         string
	PixelSpacing         float64

	WindowCenter float64
	WindowWidth  float64
}

// ContextOptions control the non-random parts of StudyContext creation.
type ContextOptions struct {
	// UIDSeed namespaces the deterministic study/series UIDs, usually the
	// output directory. Empty means fresh random UIDs.
	UIDSeed string
	// RealisticNames swaps the TEST^PATIENT^nnnn default for name-list names.
	RealisticNames bool
}

// NewStudyContext draws one study's worth of shared metadata from rng.
// All acquisition parameters are drawn once here so every frame in the
// series shares them, matching real scanner behavior.
func NewStudyContext(rng *rand.Rand, opts ContextOptions) *StudyContext {
	sex := []string{"M", "F"}[rng.IntN(2)]
	name := util.GenerateTestPatientName(rng)
	if opts.RealisticNames {
		name = util.GeneratePatientName(sex, rng)
	}

	var studyUID, seriesUID string
	if opts.UIDSeed != "" {
		studyUID = util.GenerateDeterministicUID(opts.UIDSeed + "_study_1")
		seriesUID = util.GenerateDeterministicUID(opts.UIDSeed + "_study_1_series_1")
	} else {
		studyUID = util.GenerateUID()
		seriesUID = util.GenerateUID()
	}

	scanner := scanners[rng.IntN(len(scanners))]

	ctx := &StudyContext{
		StudyUID:  studyUID,
		SeriesUID: seriesUID,

		PatientID:        fmt.Sprintf("PID%06d", rng.IntN(900000)+100000),
		PatientName:      name,
		PatientBirthDate: fmt.Sprintf("%04d%02d%02d", rng.IntN(51)+1950, rng.IntN(12)+1, rng.IntN(28)+1),
		PatientSex:       sex,

		// Drawn from the run RNG rather than the wall clock so encoding the
		// same seeded run twice yields byte-identical files.
		StudyDate: fmt.Sprintf("%04d%02d%02d", rng.IntN(5)+2020, rng.IntN(12)+1, rng.IntN(28)+1),
		StudyTime: fmt.Sprintf("%02d%02d%02d", rng.IntN(24), rng.IntN(60), rng.IntN(60)),

		StudyID:          fmt.Sprintf("STD%04d", rng.IntN(9000)+1000),
		AccessionNumber:  fmt.Sprintf("ACC%06d", rng.IntN(900000)+100000),
		StudyDescription: "Brain MRI",

		SeriesNumber:      1,
		SeriesDescription: "Test MRI Series",

		Scanner:          scanner,
		ImagingFrequency: scanner.FieldStrength * gyromagneticRatioMHzPerTesla,

		EchoTime:       10.0 + rng.Float64()*20.0,  // 10-30 ms
		RepetitionTime: 400.0 + rng.Float64()*400.0, // 400-800 ms
		FlipAngle:      60.0 + rng.Float64()*30.0,   // 60-90 degrees
		SliceThickness: 1.0 + rng.Float64()*4.0,     // 1.0-5.0 mm
		SequenceName:   sequenceNames[rng.IntN(len(sequenceNames))],
		PixelSpacing:   0.5 + rng.Float64()*1.5, // 0.5-2.0 mm, isotropic

		WindowCenter: 500.0 + rng.Float64()*1000.0,
		WindowWidth:  1000.0 + rng.Float64()*1000.0,
	}
	ctx.SpacingBetweenSlices = ctx.SliceThickness + rng.Float64()*0.5

	return ctx
}

// InstanceRecord is one fully-specified SOP instance awaiting encoding.
// It is immutable once handed to the encoder.
type InstanceRecord struct {
	Context        *StudyContext
	SOPInstanceUID string
	InstanceNumber int
	Geometry       Geometry
	Pixels         []uint16
}

// NewInstanceRecord binds a per-instance identity to the shared study
// context. instanceNumber is the 1-based position within the run.
func NewInstanceRecord(ctx *StudyContext, geo Geometry, instanceNumber int, sopInstanceUID string, pixels []uint16) *InstanceRecord {
	return &InstanceRecord{
		Context:        ctx,
		SOPInstanceUID: sopInstanceUID,
		InstanceNumber: instanceNumber,
		Geometry:       geo,
		Pixels:         pixels,
	}
}

// floatToDS renders a float as a DICOM Decimal String value.
func floatToDS(f float64) string {
	return fmt.Sprintf("%.6f", f)
}

// File assembles the Part 10 file for this record: every required clinical
// attribute, the image pixel module and the pixel data element.
func (r *InstanceRecord) File() (*File, error) {
	if r.Geometry.Width <= 0 || r.Geometry.Height <= 0 {
		return nil, fmt.Errorf("%w: invalid geometry %dx%d", ErrEncoding, r.Geometry.Width, r.Geometry.Height)
	}
	if r.Geometry.PixelBytes() > maxElementLength {
		return nil, fmt.Errorf("%w: %d pixel bytes", ErrPayloadTooLarge, r.Geometry.PixelBytes())
	}
	if len(r.Pixels) != r.Geometry.Width*r.Geometry.Height {
		return nil, fmt.Errorf("%w: pixel grid has %d samples, geometry wants %d", ErrEncoding, len(r.Pixels), r.Geometry.Width*r.Geometry.Height)
	}

	ctx := r.Context
	ds := Dataset{}

	ds.Add(TagSOPClassUID, VRUniqueIdentifier, MRImageStorageUID)
	ds.Add(TagSOPInstanceUID, VRUniqueIdentifier, r.SOPInstanceUID)
	ds.Add(TagStudyDate, VRDate, ctx.StudyDate)
	ds.Add(TagStudyTime, VRTime, ctx.StudyTime)
	ds.Add(TagAccessionNumber, VRShortString, ctx.AccessionNumber)
	ds.Add(TagModality, VRCodeString, "MR")
	ds.Add(TagManufacturer, VRLongString, ctx.Scanner.Manufacturer)
	ds.Add(TagStudyDescription, VRLongString, ctx.StudyDescription)
	ds.Add(TagSeriesDescription, VRLongString, ctx.SeriesDescription)
	ds.Add(TagManufacturerModelName, VRLongString, ctx.Scanner.Model)

	ds.Add(TagPatientName, VRPersonName, ctx.PatientName)
	ds.Add(TagPatientID, VRLongString, ctx.PatientID)
	ds.Add(TagPatientBirthDate, VRDate, ctx.PatientBirthDate)
	ds.Add(TagPatientSex, VRCodeString, ctx.PatientSex)

	ds.Add(TagSequenceName, VRShortString, ctx.SequenceName)
	ds.Add(TagSliceThickness, VRDecimalString, floatToDS(ctx.SliceThickness))
	ds.Add(TagRepetitionTime, VRDecimalString, floatToDS(ctx.RepetitionTime))
	ds.Add(TagEchoTime, VRDecimalString, floatToDS(ctx.EchoTime))
	ds.Add(TagImagingFrequency, VRDecimalString, floatToDS(ctx.ImagingFrequency))
	ds.Add(TagMagneticFieldStrength, VRDecimalString, fmt.Sprintf("%.1f", ctx.Scanner.FieldStrength))
	ds.Add(TagSpacingBetweenSlices, VRDecimalString, floatToDS(ctx.SpacingBetweenSlices))
	ds.Add(TagFlipAngle, VRDecimalString, floatToDS(ctx.FlipAngle))

	ds.Add(TagStudyInstanceUID, VRUniqueIdentifier, ctx.StudyUID)
	ds.Add(TagSeriesInstanceUID, VRUniqueIdentifier, ctx.SeriesUID)
	ds.Add(TagStudyID, VRShortString, ctx.StudyID)
	ds.Add(TagSeriesNumber, VRIntegerString, fmt.Sprintf("%d", ctx.SeriesNumber))
	ds.Add(TagInstanceNumber, VRIntegerString, fmt.Sprintf("%d", r.InstanceNumber))

	ds.Add(TagSamplesPerPixel, VRUnsignedShort, uint16(1))
	ds.Add(TagPhotometricInterpretation, VRCodeString, "MONOCHROME2")
	ds.Add(TagRows, VRUnsignedShort, uint16(r.Geometry.Height))
	ds.Add(TagColumns, VRUnsignedShort, uint16(r.Geometry.Width))
	ds.Add(TagPixelSpacing, VRDecimalString, []string{floatToDS(ctx.PixelSpacing), floatToDS(ctx.PixelSpacing)})
	ds.Add(TagBitsAllocated, VRUnsignedShort, uint16(16))
	ds.Add(TagBitsStored, VRUnsignedShort, uint16(16))
	ds.Add(TagHighBit, VRUnsignedShort, uint16(15))
	ds.Add(TagPixelRepresentation, VRUnsignedShort, uint16(0))
	ds.Add(TagWindowCenter, VRDecimalString, fmt.Sprintf("%.1f", ctx.WindowCenter))
	ds.Add(TagWindowWidth, VRDecimalString, fmt.Sprintf("%.1f", ctx.WindowWidth))

	ds.Add(TagPixelData, VROtherWord, r.Pixels)

	return &File{
		MediaStorageSOPClassUID:    MRImageStorageUID,
		MediaStorageSOPInstanceUID: r.SOPInstanceUID,
		Dataset:                    ds,
	}, nil
}
