package leaderboard

import "errors"

var ErrNotFound = errors.New("not found")
