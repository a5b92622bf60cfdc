package pint

// Test-only exports for internal functions.
var (
	HasParamTags  = hasParamTags
	HasBodyField  = hasBodyField
	HasRawRequest = hasRawRequest

	TypeToSchema   = typeToSchema
	StructToSchema = structToSchema
	JSONFieldName  = jsonFieldName

	IsJSONMedia        = isJSONMedia
	DefaultOperationID = defaultOperationID
	ToOpenAPIPath      = toOpenAPIPath
)
