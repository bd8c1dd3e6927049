// Package archive holds the watch log: committed records, the validator that
// guards them, and the codec that moves an archive to and from disk.
//
// An Archive is an ordered set of Records keyed by text identifiers "1", "2",
// ... assigned at commit time. Records are values; once committed they are
// never mutated in place.
//
// # File format
//
// The on-disk document is a mapping from identifier to a record mapping with
// the keys Title, Day, Month, Year, and Theater? ("y" or "n"):
//
//	{
//	  "1": {"Title": "Alien", "Day": 5, "Month": 6, "Year": 1979, "Theater?": "y"}
//	}
//
// Loading accepts YAML or JSON syntax through one YAML parser. Saving picks
// the syntax from the destination extension: .yml and .yaml write YAML,
// everything else writes JSON. Loading only enforces the mapping-of-mappings
// shape: a missing or unreadable record field loads as its zero value, and
// numeric text such as "5" reads as the number.
package archive
