package compiler

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hesusruiz/tsv2smw/schema"
)

// Users maps the capitalized names of the wiki users to their IDs.
type Users map[string]int

// ReadUsers reads a users file, one "id<TAB>name" line per user.
// Blank lines are skipped.
func ReadUsers(r io.Reader) (Users, error) {
	users := Users{}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if len(text) == 0 {
			continue
		}
		id, name, found := strings.Cut(text, "\t")
		if !found {
			return nil, &schema.LineError{Line: line, Msg: "expecting id and name separated by a tab", Err: schema.ErrTooFewColumns}
		}
		n, err := strconv.Atoi(strings.TrimSpace(id))
		if err != nil {
			return nil, &schema.LineError{Line: line, Msg: fmt.Sprintf("invalid user id '%s'", id), Err: err}
		}
		users[schema.Capitalize(strings.TrimSpace(name))] = n
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// Lookup returns the ID of a user given the name found in a data file.
func (u Users) Lookup(name string) (int, bool) {
	id, ok := u[schema.Capitalize(strings.TrimSpace(name))]
	return id, ok
}
