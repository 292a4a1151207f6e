package filematch

import "strings"

// Match reports whether a file's Local ID belongs to a record's Local ID and
// returns the sort order to use for the row.
//
// Identical IDs match with the file's own sort order. A record ID whose last
// segment is a numeric range ("nis_05_06_0089-0096") matches any file ID with
// the same prefix and a last segment inside the range ("nis_05_06_0092"); the
// file's number within the range becomes the sort order.
func Match(recordID, fileID string, fileSort int) (int, bool) {
	if recordID == fileID {
		return fileSort, true
	}
	if !strings.Contains(recordID, "-") || strings.Contains(fileID, "-") {
		return 0, false
	}

	recordPrefix, span := splitLast(recordID)
	filePrefix, last := splitLast(fileID)
	if recordPrefix != filePrefix {
		return 0, false
	}

	lo, hi, ok := strings.Cut(span, "-")
	if !ok {
		return 0, false
	}
	begin, err := atoi(lo)
	if err != nil {
		return 0, false
	}
	end, err := atoi(hi)
	if err != nil {
		return 0, false
	}
	n, err := atoi(last)
	if err != nil {
		return 0, false
	}

	if begin <= n && n <= end {
		return n, true
	}
	return 0, false
}
