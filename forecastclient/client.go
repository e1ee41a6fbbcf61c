// Package forecastclient implements the API onto the desk's forecasting
// service, which supplies day-ahead energy price forecasts and ancillary
// service award schedules per resource.
package forecastclient

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cepro/copplanner/ancillary"
	timeutils "github.com/cepro/copplanner/time_utils"
)

const (
	accessTokenMaxAge = time.Minute * 5 // how old an access token can be before we get a new one
)

// Client implements the API onto the forecasting service.
type Client struct {
	httpClient http.Client
	baseUrl    string
	username   string
	password   string

	accessToken            string
	accessTokenLastUpdated time.Time

	logger *slog.Logger
}

// authResponse is the JSON body sent by the forecasting service when we query
// the `auth/token-form` endpoint
type authResponse struct {
	AccessToken string `json:"access_token"`
}

func New(httpClient http.Client, baseUrl, username, password string) *Client {
	return &Client{
		httpClient: httpClient,
		baseUrl:    baseUrl,
		username:   username,
		password:   password,
		logger:     slog.Default().With("host", baseUrl),
	}
}

// PriceForecast pulls the hourly energy price forecast for the given resource
// over the given period and returns it keyed by hour ending, in $/MWh.
func (c *Client) PriceForecast(resourceName string, period timeutils.Period) (map[time.Time]float64, error) {

	var points []pricePoint
	err := c.getJSON(fmt.Sprintf("%s/resources/%s/price-forecast", c.baseUrl, resourceName), period, &points)
	if err != nil {
		return nil, err
	}

	// keys are normalised to UTC so lookups do not depend on the wire timezone
	prices := make(map[time.Time]float64, len(points))
	for _, point := range points {
		prices[point.HourEnding.UTC()] = point.Price
	}

	c.logger.Debug("Pulled price forecast", "resource", resourceName, "hours", len(prices))

	return prices, nil
}

// Commitments pulls the ancillary service awards for the given resource over
// the given period, keyed by hour ending.
func (c *Client) Commitments(resourceName string, period timeutils.Period) (ancillary.Commitments, error) {

	var awards []awardPoint
	err := c.getJSON(fmt.Sprintf("%s/resources/%s/as-awards", c.baseUrl, resourceName), period, &awards)
	if err != nil {
		return nil, err
	}

	commitments := make(ancillary.Commitments, len(awards))
	for _, award := range awards {
		commitments[award.HourEnding.UTC()] = ancillary.Commitment{
			RegulationMW: award.RegulationMW,
			RRSMW:        award.RRSMW,
			ECRSMW:       award.ECRSMW,
		}
	}

	c.logger.Debug("Pulled AS awards", "resource", resourceName, "hours", len(commitments))

	return commitments, nil
}

// getJSON performs an authorized GET for the given period and decodes the
// response body into `v`.
func (c *Client) getJSON(endpoint string, period timeutils.Period, v interface{}) error {

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return err
	}

	query := req.URL.Query()
	query.Set("start", period.Start.Format(time.RFC3339))
	query.Set("end", period.End.Format(time.RFC3339))
	req.URL.RawQuery = query.Encode()

	err = c.authorizeRequest(req)
	if err != nil {
		return fmt.Errorf("authorization: %w", err)
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("get: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != 200 {
		return fmt.Errorf("unexpected status code: %d", response.StatusCode)
	}

	err = json.NewDecoder(response.Body).Decode(v)
	if err != nil {
		return fmt.Errorf("parse body: %w", err)
	}

	return nil
}

// authorizeRequest adds the required Authorization header with access token to the given request (updating the access token as required).
func (c *Client) authorizeRequest(req *http.Request) error {

	if time.Since(c.accessTokenLastUpdated) >= accessTokenMaxAge {
		err := c.updateAccessToken()
		if err != nil {
			return fmt.Errorf("update access token: %w", err)
		}
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.accessToken))

	return nil
}

// updateAccessToken queries the auth endpoint for a new access token and saves it
func (c *Client) updateAccessToken() error {

	// The body of the request uses url encoding
	data := url.Values{}
	data.Set("username", c.username)
	data.Set("password", c.password)

	req, err := http.NewRequest(
		"POST",
		fmt.Sprintf("%s/auth/token-form", c.baseUrl),
		strings.NewReader(data.Encode()),
	)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("get auth: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != 200 {
		return fmt.Errorf("unexpected status code: %d", response.StatusCode)
	}

	parsedResponse := authResponse{}
	err = json.NewDecoder(response.Body).Decode(&parsedResponse)
	if err != nil {
		return fmt.Errorf("parse body: %w", err)
	}

	c.accessToken = parsedResponse.AccessToken
	c.accessTokenLastUpdated = time.Now()

	return nil
}
