package models

// Sheet is one named tab of a workbook (or the single logical table of a
// CSV file) together with the images anchored to it.
type Sheet struct {
	// Name is the sheet name, unique within its workbook.
	Name string
	// Table holds the sheet's cell data with the first row as header.
	Table Table
	// Images contains the embedded images anchored to this sheet, in
	// ordinal order.
	Images []ExtractedImage
}
