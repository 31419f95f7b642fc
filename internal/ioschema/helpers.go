package ioschema

import "strings"

// indexName extracts the index name from a CREATE INDEX statement.
func indexName(stmt string) string {
	fields := strings.Fields(stmt)
	for i, f := range fields {
		if strings.EqualFold(f, "ON") && i > 0 {
			return fields[i-1]
		}
	}
	return ""
}

// indexTable extracts the indexed table from a CREATE INDEX statement.
func indexTable(stmt string) string {
	fields := strings.Fields(stmt)
	for i, f := range fields {
		if strings.EqualFold(f, "ON") && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	return ""
}
