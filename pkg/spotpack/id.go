package spotpack

import "strings"

// ExtractID returns the spot id from a detail page URL such as
// https://share-map.net/smoking-area/japan/nagasaki/sasebo/107427/
func ExtractID(url string) (string, bool) {
	url = strings.TrimSuffix(url, "/")
	last := url[strings.LastIndex(url, "/")+1:]
	if !isDigits(last) {
		return "", false
	}
	return last, true
}
