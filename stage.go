package meshq

import "fmt"

// Stage is a state of the per-mesh pipeline. Stages only move forward:
//
//	Load → Transform (optional) → Normalize → Quantize → Dequantize →
//	Denormalize → Evaluate → Export | Report
type Stage int

const (
	StageLoad Stage = iota
	StageTransform
	StageNormalize
	StageQuantize
	StageDequantize
	StageDenormalize
	StageEvaluate
	StageExport
	StageReport
)

var stageNames = [...]string{
	StageLoad:        "load",
	StageTransform:   "transform",
	StageNormalize:   "normalize",
	StageQuantize:    "quantize",
	StageDequantize:  "dequantize",
	StageDenormalize: "denormalize",
	StageEvaluate:    "evaluate",
	StageExport:      "export",
	StageReport:      "report",
}

// Stages lists every stage in pipeline order.
var Stages = []Stage{
	StageLoad, StageTransform, StageNormalize, StageQuantize, StageDequantize,
	StageDenormalize, StageEvaluate, StageExport, StageReport,
}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}
