package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTarget(t *testing.T) {
	for _, s := range []string{StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		assert.True(t, ValidTarget(s), "expected %q to be a valid target", s)
	}
	for _, s := range []string{StatusPending, "", "returned", "Pending", "SHIPPED"} {
		assert.False(t, ValidTarget(s), "expected %q to be rejected", s)
	}
}

func TestAllowedFrom(t *testing.T) {
	cases := []struct {
		target string
		from   []string
	}{
		{StatusProcessing, []string{StatusPending}},
		{StatusShipped, []string{StatusPending, StatusProcessing}},
		{StatusDelivered, []string{StatusPending, StatusProcessing, StatusShipped}},
		{StatusCancelled, []string{StatusPending, StatusProcessing}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.from, allowedFrom(tc.target), "target %q", tc.target)
	}

	// Terminal statuses appear in no from-set, so nothing leaves them.
	for _, tc := range cases {
		assert.NotContains(t, tc.from, StatusDelivered)
		assert.NotContains(t, tc.from, StatusCancelled)
	}

	assert.Nil(t, allowedFrom(StatusPending))
	assert.Nil(t, allowedFrom("returned"))
}
