// Package sii talks to the Chilean tax authority's API on behalf of a
// company. All calls are best effort; callers swallow failures.
package sii

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	companydomain "github.com/contaflow/tributo/internal/company/domain"
	"github.com/contaflow/tributo/internal/config"
	form29domain "github.com/contaflow/tributo/internal/form29/domain"
	"github.com/contaflow/tributo/internal/period"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var (
	ErrMissingCredentials = errors.New("missing_sii_credentials")
	ErrProposalNotFound   = errors.New("proposal_not_found")
)

type ClientParam struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
}

type Client struct {
	baseURL    string
	log        *zap.Logger
	httpClient *http.Client
}

func NewClient(p ClientParam) form29domain.ProposalFetcher {
	return &Client{
		baseURL: p.Config.SII.BaseURL,
		log:     p.Log.Named("sii.client"),
		httpClient: &http.Client{
			Timeout: p.Config.SII.Timeout,
		},
	}
}

// FetchProposal downloads the authority's pre-filled F29 proposal for the
// period. The payload is kept opaque: the engine stores it as reference
// data next to the draft and never derives values from it.
func (c *Client) FetchProposal(ctx context.Context, company companydomain.Company, p period.Period) (datatypes.JSON, error) {
	if !company.HasSIICredentials() {
		return nil, ErrMissingCredentials
	}

	endpoint := fmt.Sprintf("%s/recursos/v1/f29/propuesta/%s/%04d/%02d",
		c.baseURL, company.RUT, p.Year, int(p.Month))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(company.SIIUser, company.SIIPassword)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProposalNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sii proposal fetch failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(body), nil
}

// Module provides the SII proposal fetcher.
var Module = fx.Module("sii",
	fx.Provide(NewClient),
)
