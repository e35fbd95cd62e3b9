package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func value(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestCountersIncrement(t *testing.T) {
	weekly := LoansCreatedTotal.WithLabelValues("weekly")
	before := value(t, weekly)
	weekly.Inc()
	if got := value(t, weekly); got != before+1 {
		t.Fatalf("loans_created_total = %v, want %v", got, before+1)
	}

	PaymentsAmountTotal.Add(150.5)
	if got := value(t, PaymentsAmountTotal); got < 150.5 {
		t.Fatalf("payments_amount_total = %v", got)
	}
}
