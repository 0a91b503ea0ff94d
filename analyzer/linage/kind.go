package linage

type Category string

const (
	ChangeMetadata Category = "changeMetadata"
	ChangeData     Category = "changeData"
)

type OperationType string

const (
	Metadata OperationType = "METADATA"
	Data     OperationType = "DATA"
)

// Operation names used by step analyzers
const (
	OpModifyName  = "modifyName"
	OpModifyType  = "modifyType"
	OpModifyLen   = "modifyLength"
	OpModifyPrec  = "modifyPrecision"
	OpCalculation = "calculation"
)
