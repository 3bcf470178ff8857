package megatec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEnvelope(t *testing.T) {
	t.Run("scalar parameters keep their order", func(t *testing.T) {
		envelope := BuildEnvelope("Connect", Params{
			{Name: "login", Value: "agency"},
			{Name: "password", Value: "s3cret & more"},
		})

		assert.Contains(t, envelope, `<Connect xmlns="http://www.megatec.ru/">`)
		assert.Contains(t, envelope, "<login>agency</login><password>s3cret &amp; more</password>")
	})

	t.Run("int lists render repeated int children", func(t *testing.T) {
		envelope := BuildEnvelope("SearchHotelServices", Params{
			{Name: "guid", Value: "abc"},
			{Name: "request", Value: Params{
				{Name: "CityKeys", Value: IntList{4, 9}},
			}},
		})

		assert.Contains(t, envelope, "<CityKeys><int>4</int><int>9</int></CityKeys>")
	})

	t.Run("nested request objects keep sequence order", func(t *testing.T) {
		envelope := BuildEnvelope("SearchHotelServices", Params{
			{Name: "guid", Value: "abc"},
			{Name: "request", Value: Params{
				{Name: "PageSize", Value: 500},
				{Name: "RowIndexFrom", Value: 0},
				{Name: "DateFrom", Value: "2026-06-01"},
				{Name: "DateTo", Value: "2026-06-08"},
			}},
		})

		assert.Contains(t, envelope,
			"<request><PageSize>500</PageSize><RowIndexFrom>0</RowIndexFrom><DateFrom>2026-06-01</DateFrom><DateTo>2026-06-08</DateTo></request>")
	})

	t.Run("the envelope parses back", func(t *testing.T) {
		envelope := BuildEnvelope("GetHotels", Params{
			{Name: "guid", Value: "abc"},
			{Name: "cityKey", Value: 17},
		})

		document, err := Parse([]byte(envelope))
		require.NoError(t, err)

		body := mustChild(t, mustChild(t, document, "Envelope"), "Body")
		call := mustChild(t, body, "GetHotels")
		assert.Equal(t, "17", call["cityKey"])
	})
}

func TestSOAPAction(t *testing.T) {
	assert.Equal(t, "http://www.megatec.ru/GetHotels", SOAPAction("GetHotels"))
}

func TestExtractResult(t *testing.T) {
	t.Run("finds the result child of the method response", func(t *testing.T) {
		document, err := Parse([]byte(`
			<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
				<soap:Body>
					<ConnectResponse xmlns="http://www.megatec.ru/">
						<ConnectResult>f81d4fae-7dec-11d0-a765-00a0c91e6bf6</ConnectResult>
					</ConnectResponse>
				</soap:Body>
			</soap:Envelope>`))
		require.NoError(t, err)

		result, err := ExtractResult(document, "Connect")
		require.NoError(t, err)
		assert.Equal(t, "f81d4fae-7dec-11d0-a765-00a0c91e6bf6", result)
	})

	t.Run("surfaces soap faults with their reason", func(t *testing.T) {
		document, err := Parse([]byte(`
			<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
				<soap:Body>
					<soap:Fault>
						<faultcode>soap:Server</faultcode>
						<faultstring>Invalid GUID</faultstring>
					</soap:Fault>
				</soap:Body>
			</soap:Envelope>`))
		require.NoError(t, err)

		_, err = ExtractResult(document, "GetHotels")

		var fault *Fault
		require.ErrorAs(t, err, &fault)
		assert.Equal(t, "Invalid GUID", fault.Reason)
		assert.Equal(t, "soap:Server", fault.Code)
	})

	t.Run("missing body is a parse fault", func(t *testing.T) {
		document, err := Parse([]byte(`<Envelope><Header></Header></Envelope>`))
		require.NoError(t, err)

		_, err = ExtractResult(document, "GetHotels")

		var fault *ParseFault
		require.ErrorAs(t, err, &fault)
	})

	t.Run("missing response element is a parse fault", func(t *testing.T) {
		document, err := Parse([]byte(`
			<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
				<soap:Body><SomethingElse>x</SomethingElse></soap:Body>
			</soap:Envelope>`))
		require.NoError(t, err)

		_, err = ExtractResult(document, "GetHotels")

		var fault *ParseFault
		require.ErrorAs(t, err, &fault)
	})
}

func TestIsAuthShaped(t *testing.T) {
	assert.True(t, IsAuthShaped(&Fault{Reason: "Invalid GUID"}))
	assert.True(t, IsAuthShaped(&Fault{Reason: "Session expired"}))
	assert.True(t, IsAuthShaped(&AuthFault{Msg: "no usable token"}))
	assert.False(t, IsAuthShaped(&Fault{Reason: "Object reference not set"}))
	assert.False(t, IsAuthShaped(nil))
}

func mustChild(t *testing.T, node map[string]any, name string) map[string]any {
	t.Helper()
	child, ok := ChildMap(node[name])
	require.True(t, ok, "expected %s to be a mapping", name)
	return child
}
