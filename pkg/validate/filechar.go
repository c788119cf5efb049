package validate

import (
	"github.com/leapstack-labs/vtool/pkg/core"
	"github.com/leapstack-labs/vtool/pkg/label"
)

// File characteristic elements.
const (
	RecordTypeElement   = "RECORD_TYPE"
	RecordBytesElement  = "RECORD_BYTES"
	FileRecordsElement  = "FILE_RECORDS"
	LabelRecordsElement = "LABEL_RECORDS"
	FileObject          = "FILE"
)

// RecordType is the physical record layout of a data file.
type RecordType int

// Record types.
const (
	RecordUnknown RecordType = iota // not a recognized RECORD_TYPE value
	RecordFixedLength
	RecordVariableLength
	RecordStream
	RecordUndefined
)

// ParseRecordType maps a RECORD_TYPE value to a RecordType. Unrecognized text
// yields RecordUnknown.
func ParseRecordType(s string) RecordType {
	switch s {
	case "FIXED_LENGTH":
		return RecordFixedLength
	case "VARIABLE_LENGTH":
		return RecordVariableLength
	case "STREAM":
		return RecordStream
	case "UNDEFINED":
		return RecordUndefined
	default:
		return RecordUnknown
	}
}

func (t RecordType) String() string {
	switch t {
	case RecordFixedLength:
		return "FIXED_LENGTH"
	case RecordVariableLength:
		return "VARIABLE_LENGTH"
	case RecordStream:
		return "STREAM"
	case RecordUndefined:
		return "UNDEFINED"
	default:
		return "unknown"
	}
}

// sized reports whether records of this type need byte and record counts.
func (t RecordType) sized() bool {
	return t == RecordFixedLength || t == RecordVariableLength
}

// FileCharacteristicValidator checks that a label carries the record layout
// elements its topology and record type call for.
type FileCharacteristicValidator struct{}

// Validate checks l. An undefined label type cannot be checked and passes
// with a warning. For combined-detached labels every FILE object is checked
// and the verdict is true only if all of them pass.
func (FileCharacteristicValidator) Validate(l *label.Label) Result {
	res := Pass()
	pos := label.Position{File: l.Filename}

	switch l.Type {
	case label.LabelCombinedDetached:
		for _, file := range l.Objects(FileObject) {
			res.Merge(checkFileObject(file))
		}
	case label.LabelAttached, label.LabelDetached:
		res.Merge(checkRecords(l.Root(), l.Type == label.LabelAttached, "label", pos))
	default:
		res.note(core.SeverityWarning, core.CodeFileCharacteristics, pos,
			"file characteristics will not be checked as the type of label is UNDEFINED")
	}
	return res
}

func checkFileObject(file *label.ObjectStatement) Result {
	return checkRecords(file, false, "file object", file.Pos())
}

// checkRecords applies the record rules to the attributes of container.
// withLabelRecords adds the LABEL_RECORDS requirement of attached labels.
func checkRecords(container *label.ObjectStatement, withLabelRecords bool, what string, pos label.Position) Result {
	res := Pass()

	recordType := container.Attribute(RecordTypeElement)
	if recordType == nil {
		res.fail(core.SeverityError, core.CodeMissingFileElement, pos,
			"%s does not contain the required %s element", what, RecordTypeElement)
		return res
	}

	text := ""
	if recordType.Value != nil {
		text = recordType.Value.String()
	}
	rt := ParseRecordType(text)
	if rt == RecordUnknown {
		res.fail(core.SeverityWarning, core.CodeFileCharacteristics, recordType.Pos(),
			"could not determine %s %q, file characteristics will not be checked", RecordTypeElement, text)
		return res
	}
	if !rt.sized() {
		return res
	}

	required := []string{RecordBytesElement, FileRecordsElement}
	if withLabelRecords {
		required = append(required, LabelRecordsElement)
	}
	for _, id := range required {
		if !container.HasAttribute(id) {
			res.fail(core.SeverityError, core.CodeMissingFileElement, pos,
				"%s does not contain required element %s", what, id)
		}
	}
	return res
}
