// Package database handles the optional database connection and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL connections based on the
// application's configuration. The database only backs the presign audit log, so
// the service runs without it; Connect returns ErrDisabled unless DATABASE_ENABLED is set.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read SHOW COLUMNS output so the integrity
// feature can confirm the audit table matches the expected model.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logg.Warn("Optional database connection failed", zap.Error(err))
//	}
//
//	missing, err := database.MissingColumns(db, "presign_audits", []string{"object_key"})
package database
