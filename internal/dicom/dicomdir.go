package dicom

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	sdicom "github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/tlacroix/dicomsynth/internal/util"
)

// recordInUse marks a directory record as active per PS3.10.
const recordInUse = uint16(0xFFFF)

// BuildDICOMDIR writes a DICOMDIR index alongside the generated instance
// files. Records form the PATIENT > STUDY > SERIES > IMAGE hierarchy in
// file order. Intra-record offsets are left at zero; readers that walk the
// Directory Record Sequence itself (pydicom, dcmtk's dcmdump) resolve the
// hierarchy from record types.
func BuildDICOMDIR(outputDir string, files []GeneratedFile) error {
	if len(files) == 0 {
		return fmt.Errorf("no files to index")
	}

	type seriesGroup struct {
		seriesUID string
		files     []GeneratedFile
	}
	type studyGroup struct {
		studyUID string
		series   map[string]*seriesGroup
	}
	type patientGroup struct {
		patientID string
		studies   map[string]*studyGroup
	}

	patients := make(map[string]*patientGroup)
	var patientOrder []string

	for _, file := range files {
		patient, ok := patients[file.PatientID]
		if !ok {
			patient = &patientGroup{patientID: file.PatientID, studies: make(map[string]*studyGroup)}
			patients[file.PatientID] = patient
			patientOrder = append(patientOrder, file.PatientID)
		}
		study, ok := patient.studies[file.StudyUID]
		if !ok {
			study = &studyGroup{studyUID: file.StudyUID, series: make(map[string]*seriesGroup)}
			patient.studies[file.StudyUID] = study
		}
		series, ok := study.series[file.SeriesUID]
		if !ok {
			series = &seriesGroup{seriesUID: file.SeriesUID}
			study.series[file.SeriesUID] = series
		}
		series.files = append(series.files, file)
	}

	var records []Dataset
	for _, pid := range patientOrder {
		patient := patients[pid]

		var studyUIDs []string
		for uid := range patient.studies {
			studyUIDs = append(studyUIDs, uid)
		}
		sort.Strings(studyUIDs)

		// Patient name, study date and time live only inside the written
		// files; re-read the first instance of each group to recover them.
		firstStudy := patient.studies[studyUIDs[0]]
		var firstSeriesUID string
		for uid := range firstStudy.series {
			if firstSeriesUID == "" || uid < firstSeriesUID {
				firstSeriesUID = uid
			}
		}
		attrs, err := readRecordAttrs(firstStudy.series[firstSeriesUID].files[0].Path)
		if err != nil {
			return fmt.Errorf("read attributes for patient %s: %w", pid, err)
		}

		records = append(records, directoryRecord("PATIENT", []Element{
			{TagPatientName, VRPersonName, attrs.patientName},
			{TagPatientID, VRLongString, patient.patientID},
		}))

		for _, studyUID := range studyUIDs {
			study := patient.studies[studyUID]

			var seriesUIDs []string
			for uid := range study.series {
				seriesUIDs = append(seriesUIDs, uid)
			}
			sort.Strings(seriesUIDs)

			studyFirst := study.series[seriesUIDs[0]].files[0]
			records = append(records, directoryRecord("STUDY", []Element{
				{TagStudyDate, VRDate, attrs.studyDate},
				{TagStudyTime, VRTime, attrs.studyTime},
				{TagStudyInstanceUID, VRUniqueIdentifier, study.studyUID},
				{TagStudyID, VRShortString, studyFirst.StudyID},
			}))

			for _, seriesUID := range seriesUIDs {
				series := study.series[seriesUID]
				sort.Slice(series.files, func(i, j int) bool {
					return series.files[i].InstanceNumber < series.files[j].InstanceNumber
				})

				records = append(records, directoryRecord("SERIES", []Element{
					{TagModality, VRCodeString, "MR"},
					{TagSeriesInstanceUID, VRUniqueIdentifier, series.seriesUID},
					{TagSeriesNumber, VRIntegerString, fmt.Sprintf("%d", series.files[0].SeriesNumber)},
				}))

				for _, file := range series.files {
					records = append(records, directoryRecord("IMAGE", []Element{
						{TagReferencedFileID, VRCodeString, filepath.Base(file.Path)},
						{TagReferencedSOPClassUIDInFile, VRUniqueIdentifier, MRImageStorageUID},
						{TagReferencedSOPInstanceUIDInFile, VRUniqueIdentifier, file.SOPInstanceUID},
						{TagReferencedTransferSyntaxUIDInFile, VRUniqueIdentifier, ExplicitVRLittleEndianUID},
						{TagInstanceNumber, VRIntegerString, fmt.Sprintf("%d", file.InstanceNumber)},
					}))
				}
			}
		}
	}

	filesetID := filepath.Base(outputDir)
	if len(filesetID) > 16 {
		filesetID = filesetID[:16]
	}

	ds := Dataset{}
	ds.Add(TagFileSetID, VRCodeString, filesetID)
	ds.Add(TagOffsetOfFirstDirectoryRecord, VRUnsignedLong, uint32(0))
	ds.Add(TagOffsetOfLastDirectoryRecord, VRUnsignedLong, uint32(0))
	ds.Add(TagFileSetConsistencyFlag, VRUnsignedShort, uint16(0))
	ds.Add(TagDirectoryRecordSequence, VRSequence, records)

	f := &File{
		MediaStorageSOPClassUID:    MediaStorageDirectoryUID,
		MediaStorageSOPInstanceUID: util.GenerateUID(),
		Dataset:                    ds,
	}
	return WriteFile(filepath.Join(outputDir, "DICOMDIR"), f)
}

// recordAttrs holds the attributes a DICOMDIR record needs that are not
// carried on GeneratedFile.
type recordAttrs struct {
	patientName string
	studyDate   string
	studyTime   string
}

// readRecordAttrs parses a written instance file and extracts the shared
// patient/study attributes for its directory records.
func readRecordAttrs(path string) (recordAttrs, error) {
	ds, err := sdicom.ParseFile(path, nil, sdicom.SkipPixelData())
	if err != nil {
		return recordAttrs{}, err
	}
	return recordAttrs{
		patientName: stringAttr(ds, tag.PatientName),
		studyDate:   stringAttr(ds, tag.StudyDate),
		studyTime:   stringAttr(ds, tag.StudyTime),
	}, nil
}

// stringAttr safely extracts a string value from a parsed dataset.
func stringAttr(ds sdicom.Dataset, t tag.Tag) string {
	elem, err := ds.FindElementByTag(t)
	if err != nil || elem == nil {
		return ""
	}
	return strings.Trim(elem.Value.String(), " []")
}

// directoryRecord builds one Directory Record Sequence item with the three
// mandatory bookkeeping elements followed by the record's own attributes.
func directoryRecord(recordType string, attrs []Element) Dataset {
	ds := Dataset{}
	ds.Add(TagOffsetOfNextDirectoryRecord, VRUnsignedLong, uint32(0))
	ds.Add(TagRecordInUseFlag, VRUnsignedShort, recordInUse)
	ds.Add(TagOffsetOfLowerLevelDirectoryEntity, VRUnsignedLong, uint32(0))
	ds.Add(TagDirectoryRecordType, VRCodeString, recordType)
	for _, e := range attrs {
		ds.Add(e.Tag, e.VR, e.Value)
	}
	return ds
}
