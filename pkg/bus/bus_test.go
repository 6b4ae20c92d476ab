package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := New()

	var first, second []string
	b.Subscribe(func(e Event) { first = append(first, e.Collection) })
	b.Subscribe(func(e Event) { second = append(second, e.Collection) })

	b.Publish(Event{Collection: "models"})
	b.Publish(Event{Collection: "customers"})

	assert.Equal(t, []string{"models", "customers"}, first)
	assert.Equal(t, []string{"models", "customers"}, second)
}

func TestPublishWithoutSubscribersIsHarmless(t *testing.T) {
	b := New()
	assert.NotPanics(t, func() { b.Publish(Event{Collection: "dealers"}) })
}

func TestDeliveryIsSynchronous(t *testing.T) {
	b := New()

	delivered := false
	b.Subscribe(func(Event) { delivered = true })
	b.Publish(Event{Collection: "models"})

	// No goroutines involved: the handler ran before Publish returned
	assert.True(t, delivered)
}
