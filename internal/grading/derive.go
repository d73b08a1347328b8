package grading

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// Derive computes derived fields for every record. The result has the same
// length and order as the input, and the input is not modified.
func Derive(records []GradingRecord) []DerivedRecord {
	out := make([]DerivedRecord, len(records))
	for i, r := range records {
		out[i] = DeriveRecord(r)
	}
	return out
}

// DeriveRecord computes the derived fields of a single record.
//
// A zero max_points is not special-cased: percent_error and the normalized
// scores carry whatever IEEE-754 value the division produces.
func DeriveRecord(r GradingRecord) DerivedRecord {
	d := DerivedRecord{GradingRecord: r}
	d.Error = r.LLMScore - r.TAScore
	d.AbsError = math.Abs(d.Error)
	d.PercentError = round2(d.AbsError / r.MaxPoints * 100)
	d.NormalizedTA = r.TAScore / r.MaxPoints
	d.NormalizedLLM = r.LLMScore / r.MaxPoints
	d.AutoFlag = len(FlagReasons(d)) > 0
	return d
}

// FlagReasons returns every auto-flag condition the record meets, in policy
// order. An empty result means the record is not flagged.
func FlagReasons(d DerivedRecord) []FlagReason {
	var reasons []FlagReason
	if d.Confidence < ConfidenceThreshold {
		reasons = append(reasons, ReasonLowConfidence)
	}
	if d.PercentError > PercentErrorThreshold {
		reasons = append(reasons, ReasonPercentError)
	}
	if d.AbsError > d.MaxPoints*AbsErrorFactor {
		reasons = append(reasons, ReasonAbsError)
	}
	return reasons
}

// round2 rounds half to even at two decimal places.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// Fingerprint returns a stable content hash of the records. Two datasets
// with the same records in the same order share a fingerprint.
func Fingerprint(records []GradingRecord) string {
	h := sha256.New()
	var buf [8]byte
	writeFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	writeString := func(s string) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		h.Write(buf[:])
		h.Write([]byte(s))
	}
	for _, r := range records {
		writeString(r.StudentID)
		writeString(r.QuestionID)
		writeFloat(r.TAScore)
		writeFloat(r.LLMScore)
		writeFloat(r.MaxPoints)
		writeFloat(r.Confidence)
		if r.Flags {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Records strips derived fields, returning the underlying grading records.
func Records(derived []DerivedRecord) []GradingRecord {
	out := make([]GradingRecord, len(derived))
	for i, d := range derived {
		out[i] = d.GradingRecord
	}
	return out
}
