package catalog

import (
	"strconv"

	"github.com/shopspring/decimal"
)

var (
	zero    = decimal.Zero
	hundred = decimal.NewFromInt(100)
)

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
