package dtos

type BeneficiarySheetUploadQuery struct {
	Geocode *bool `query:"geocode" json:"geocode"`
}

type BeneficiarySheetParams struct {
	Id string `params:"id" json:"id" validate:"required,uuid"`
}
