package kafka

import (
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() ectologger.Logger {
	z, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(z, nil)
}

func TestParseCompanyNameEvent(t *testing.T) {
	msg := &IncomingMessage{Value: []byte(`{"company_name":"Siemens AG","country_code":"DE"}`)}
	require.NoError(t, msg.ParseCompanyNameEvent())
	assert.Equal(t, "Siemens AG", msg.Event.CompanyName)
	assert.Equal(t, "DE", msg.Event.CountryCode)
}

func TestParseCompanyNameEventInvalidJSON(t *testing.T) {
	msg := &IncomingMessage{Value: []byte(`not json`)}
	assert.Error(t, msg.ParseCompanyNameEvent())
}
