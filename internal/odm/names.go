// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package odm

// TableInfo links the three names an ODM table goes by: the dataset
// attribute key, the published ODM table name, and the workbook sheet name.
// The names differ only for CovidPublicHealthData, whose sheet is "CPHD".
type TableInfo struct {
	// Key is the internal attribute key, e.g. "ww_measure".
	Key string
	// OdmName is the published table name, e.g. "WWMeasure". Exported CSV
	// files and SQLite tables use this name.
	OdmName string
	// Sheet is the workbook sheet name.
	Sheet string
	// IDColumn is the table's primary identifier column.
	IDColumn string
	// Static marks tables carried by the static workbook rather than by
	// lab submissions.
	Static bool
}

// TableCatalog lists every ODM table in canonical order.
var TableCatalog = []TableInfo{
	{Key: "sample", OdmName: "Sample", Sheet: "Sample", IDColumn: "sampleID"},
	{Key: "ww_measure", OdmName: "WWMeasure", Sheet: "WWMeasure", IDColumn: "wwMeasureID"},
	{Key: "site", OdmName: "Site", Sheet: "Site", IDColumn: "siteID", Static: true},
	{Key: "site_measure", OdmName: "SiteMeasure", Sheet: "SiteMeasure", IDColumn: "siteMeasureID"},
	{Key: "reporter", OdmName: "Reporter", Sheet: "Reporter", IDColumn: "reporterID", Static: true},
	{Key: "lab", OdmName: "Lab", Sheet: "Lab", IDColumn: "labID", Static: true},
	{Key: "assay_method", OdmName: "AssayMethod", Sheet: "AssayMethod", IDColumn: "assayMethodID", Static: true},
	{Key: "instrument", OdmName: "Instrument", Sheet: "Instrument", IDColumn: "instrumentID", Static: true},
	{Key: "polygon", OdmName: "Polygon", Sheet: "Polygon", IDColumn: "polygonID", Static: true},
	{Key: "cphd", OdmName: "CovidPublicHealthData", Sheet: "CPHD", IDColumn: "cphdID"},
}

// InfoFor resolves a table by any of its names: attribute key, ODM name,
// or sheet name.
func InfoFor(name string) (TableInfo, bool) {
	for _, info := range TableCatalog {
		if name == info.Key || name == info.OdmName || name == info.Sheet {
			return info, true
		}
	}
	return TableInfo{}, false
}

// Keys returns the attribute keys in canonical order.
func Keys() []string {
	keys := make([]string, len(TableCatalog))
	for i, info := range TableCatalog {
		keys[i] = info.Key
	}
	return keys
}
