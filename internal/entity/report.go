package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medlens/medlens/constants"
)

// DiseaseAnalysis is the first structured record produced for a report.
// Field names are a hard contract with the reasoning-service schema.
type DiseaseAnalysis struct {
	DiagnosedConditions []string `bson:"diagnosedConditions" json:"diagnosedConditions"`
	Causes              string   `bson:"causes" json:"causes"`
	EarlySymptoms       string   `bson:"earlySymptoms" json:"earlySymptoms"`
	Stages              string   `bson:"stages" json:"stages"`
	FutureSymptoms      string   `bson:"futureSymptoms" json:"futureSymptoms"`
	Prevention          string   `bson:"prevention" json:"prevention"`
	WhatToEat           string   `bson:"whatToEat" json:"whatToEat"`
	WhatToAvoid         string   `bson:"whatToAvoid" json:"whatToAvoid"`
	HowToCure           string   `bson:"howToCure" json:"howToCure"`
	HealthyLifestyle    string   `bson:"healthyLifestyle" json:"healthyLifestyle"`
}

// Medication is one entry of the medication record. Insertion order is
// preserved and entries are not deduplicated.
type Medication struct {
	Name              string `bson:"name" json:"name"`
	WhyGiven          string `bson:"whyGiven" json:"whyGiven"`
	Benefits          string `bson:"benefits" json:"benefits"`
	Dosage            string `bson:"dosage" json:"dosage"`
	Timing            string `bson:"timing" json:"timing"`
	BeforeOrAfterFood string `bson:"beforeOrAfterFood" json:"beforeOrAfterFood"`
}

// MedicationAnalysis is the second structured record produced for a report.
type MedicationAnalysis struct {
	Medications []Medication `bson:"medications" json:"medications"`
}

// TranslatedReport holds the two translated report sections for one language.
type TranslatedReport struct {
	Report1 string `bson:"report1" json:"report1"`
	Report2 string `bson:"report2" json:"report2"`
}

// Report is the sole persisted analysis entity.
type Report struct {
	ID                 primitive.ObjectID          `bson:"_id,omitempty" json:"id"`
	UserID             *primitive.ObjectID         `bson:"userId,omitempty" json:"userId,omitempty"`
	SessionID          string                      `bson:"sessionId,omitempty" json:"sessionId,omitempty"`
	ReportType         constants.ReportType        `bson:"reportType" json:"reportType"`
	OriginalFileName   string                      `bson:"originalFileName" json:"originalFileName"`
	FileType           string                      `bson:"fileType" json:"fileType"`
	Language           string                      `bson:"language" json:"language"`
	ExtractedText      string                      `bson:"extractedText,omitempty" json:"extractedText,omitempty"`
	DiseaseAnalysis    *DiseaseAnalysis            `bson:"diseaseAnalysis,omitempty" json:"diseaseAnalysis,omitempty"`
	MedicationAnalysis *MedicationAnalysis         `bson:"medicationAnalysis,omitempty" json:"medicationAnalysis,omitempty"`
	TranslatedReports  map[string]TranslatedReport `bson:"translatedReports,omitempty" json:"translatedReports,omitempty"`
	Status             constants.ReportStatus      `bson:"status" json:"status"`
	Error              string                      `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt          time.Time                   `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time                   `bson:"updatedAt" json:"updatedAt"`
}
