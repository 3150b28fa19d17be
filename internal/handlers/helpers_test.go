package handlers

import "testing"

func TestPageInputLenientParsing(t *testing.T) {
	cases := []struct {
		in          PageInput
		page, limit int
	}{
		{PageInput{}, 0, 0},
		{PageInput{Page: "abc", Limit: "xyz"}, 0, 0},
		{PageInput{Page: "2", Limit: "5"}, 2, 5},
		{PageInput{Page: "1.5", Limit: "ten"}, 0, 0},
		{PageInput{Page: "-3", Limit: "50"}, -3, 50},
	}

	for _, c := range cases {
		page, limit := c.in.PageLimit()
		if page != c.page || limit != c.limit {
			t.Errorf("PageLimit(%q, %q): expected (%d, %d), got (%d, %d)",
				c.in.Page, c.in.Limit, c.page, c.limit, page, limit)
		}
	}
}
