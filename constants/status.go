package constants

// ReportStatus is the canonical lifecycle status for rows in the reports collection.
type ReportStatus string

// Stable values (store these exact strings in the DB).
const (
	StatusProcessing ReportStatus = "processing" // created, pipeline in flight
	StatusCompleted  ReportStatus = "completed"  // both analyses persisted
	StatusFailed     ReportStatus = "failed"     // terminal failure, see error field
)

// ReportType distinguishes printed reports from handwritten prescriptions.
type ReportType string

const (
	ReportTypeDigital     ReportType = "digital"
	ReportTypeHandwritten ReportType = "handwritten"
)

// Minimum extracted-text lengths below which a submission is failed.
const (
	MinReportTextLen       = 10
	MinPrescriptionTextLen = 5
)

// MinPDFTextLayerLen is the yield below which a PDF is treated as scanned
// and re-extracted through OCR.
const MinPDFTextLayerLen = 50
