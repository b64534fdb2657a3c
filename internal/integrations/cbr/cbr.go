package cbr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/cashflow-service/internal/config"
)

// Rouble is the currency CBR quotes every rate against
const Rouble = "RUB"

// CBRClient handles integration with Central Bank of Russia
type CBRClient struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewCBRClient initializes a new CBR client
func NewCBRClient(cfg *config.Config, log *logrus.Logger) *CBRClient {
	return &CBRClient{
		url: cfg.CBRURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// buildSOAPRequest creates a SOAP request for the daily exchange rates
func (c *CBRClient) buildSOAPRequest(on time.Time) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
		<soap12:Envelope xmlns:soap12="http://www.w3.org/2003/05/soap-envelope">
			<soap12:Body>
				<GetCursOnDate xmlns="http://web.cbr.ru/">
					<On_date>%s</On_date>
				</GetCursOnDate>
			</soap12:Body>
		</soap12:Envelope>`, on.Format("2006-01-02"))
}

// sendRequest sends SOAP request to CBR
func (c *CBRClient) sendRequest(ctx context.Context, soapRequest string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBufferString(soapRequest))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/soap+xml; charset=utf-8")
	req.Header.Set("SOAPAction", "http://web.cbr.ru/GetCursOnDate")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debugf("CBR XML response: %s", string(body))

	return body, nil
}

// parseXMLResponse extracts roubles per one unit of each quoted currency
func (c *CBRClient) parseXMLResponse(rawBody []byte) (map[string]float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	elements := doc.FindElements("//ValuteData/ValuteCursOnDate")
	if len(elements) == 0 {
		return nil, fmt.Errorf("no exchange rate data found in XML")
	}

	rates := map[string]float64{Rouble: 1}
	for _, el := range elements {
		codeEl := el.FindElement("./VchCode")
		cursEl := el.FindElement("./Vcurs")
		nomEl := el.FindElement("./Vnom")
		if codeEl == nil || cursEl == nil || nomEl == nil {
			continue
		}

		var curs, nominal float64
		if _, err := fmt.Sscanf(strings.TrimSpace(cursEl.Text()), "%f", &curs); err != nil {
			return nil, fmt.Errorf("failed to parse rate for %s: %w", codeEl.Text(), err)
		}
		if _, err := fmt.Sscanf(strings.TrimSpace(nomEl.Text()), "%f", &nominal); err != nil || nominal <= 0 {
			return nil, fmt.Errorf("invalid nominal for %s: %q", codeEl.Text(), nomEl.Text())
		}
		rates[strings.ToUpper(strings.TrimSpace(codeEl.Text()))] = curs / nominal
	}

	return rates, nil
}

// GetRates retrieves the exchange rates for a date from CBR, in roubles per unit
func (c *CBRClient) GetRates(ctx context.Context, on time.Time) (map[string]float64, error) {
	body, err := c.sendRequest(ctx, c.buildSOAPRequest(on))
	if err != nil {
		return nil, err
	}

	rates, err := c.parseXMLResponse(body)
	if err != nil {
		return nil, err
	}

	c.log.Infof("Retrieved %d exchange rates for %s", len(rates)-1, on.Format("2006-01-02"))
	return rates, nil
}
