// Package modelcard imports model-card spreadsheets and saves completed cards
// into a relational store.
//
// The package has two paths. The import path reads a CSV, XLSX or legacy XLS
// export, infers a scalar type for every cell and returns one record per data
// row with absent and empty fields removed. The save path takes one flat
// record, translates its form field identifiers into table columns through a
// fixed mapping table and inserts it in a single transaction.
//
// # Features
//
//   - CSV, XLSX and XLS input, with gzip, bzip2, xz and zstandard compressed CSV and XLSX
//   - Integer, float and boolean inference; everything else stays text
//   - UTF-8 and Windows-1252 CSV input, with or without a byte order mark
//   - Parameterized inserts for SQL Server and SQLite
//   - Sentinel errors grouped into bad input, storage unavailable and internal
//
// # Import
//
//	records, err := modelcard.ParseRecords("cards.xlsx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, _ := json.Marshal(records)
//
// The header is the first row holding any non-empty cell. Header labels are
// kept verbatim and must be unique; a file with no header row fails with
// ErrEmptyInput, while a header without data rows yields an empty list.
//
// # Save
//
//	db, err := storage.Open("sqlserver", dsn)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svc, err := modelcard.NewService(db, modelcard.NewServiceOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = svc.SaveJSON(ctx, []byte(`{"name":"Fraud Scorer","modelStage":"Prod"}`))
//
// Keys the mapping table does not know are dropped. A record with no known
// key fails with ErrNoMappableFields before any statement runs. Empty strings
// and nulls are stored as NULL. Save reports success only after the commit.
//
// # Errors
//
// Use errors.Is with the exported sentinels, or CategoryOf to pick a response
// class:
//
//	switch modelcard.CategoryOf(err) {
//	case modelcard.CategoryBadInput:
//	    // the caller can fix the file or the payload
//	case modelcard.CategoryStorageUnavailable:
//	    // retry later
//	default:
//	    // log and report an internal failure
//	}
package modelcard
