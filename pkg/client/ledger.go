package client

import (
	"context"
	"net/url"

	"studyhall/pkg/model"
)

const (
	financialsPath = "/api/v1/financial-records"
	operationsPath = "/api/v1/operations"
)

type LedgerListOptions struct {
	ListOptions
	Type string
}

func (o LedgerListOptions) query() url.Values {
	q := url.Values{}
	o.apply(q)
	if o.Type != "" {
		q.Set("type", o.Type)
	}
	return q
}

type FinancialClient struct {
	httpClient *HttpClient
}

func (c *FinancialClient) Create(ctx context.Context, record *model.FinancialRecord) (*model.FinancialRecord, error) {
	return decodeData[model.FinancialRecord](c.httpClient.POST(ctx, financialsPath, record))
}

func (c *FinancialClient) List(ctx context.Context, opts LedgerListOptions) (*Page[model.FinancialRecord], error) {
	return decodePage[model.FinancialRecord](c.httpClient.GET(ctx, withQuery(financialsPath, opts.query())))
}

func (c *FinancialClient) GetByID(ctx context.Context, id string) (*model.FinancialRecord, error) {
	return decodeData[model.FinancialRecord](c.httpClient.GET(ctx, financialsPath+"/id/"+url.PathEscape(id)))
}

func (c *FinancialClient) Update(ctx context.Context, id string, update *model.FinancialRecordUpdate) (*model.FinancialRecord, error) {
	return decodeData[model.FinancialRecord](c.httpClient.PUT(ctx, financialsPath+"/id/"+url.PathEscape(id), update))
}

func (c *FinancialClient) Delete(ctx context.Context, id string) error {
	return expectNoContent(c.httpClient.DELETE(ctx, financialsPath+"/id/"+url.PathEscape(id)))
}

// Summary groups records by bucket ("day", "week" or "month").
func (c *FinancialClient) Summary(ctx context.Context, opts LedgerListOptions, bucket string) (*model.FinancialSummary, error) {
	q := opts.query()
	if bucket != "" {
		q.Set("bucket", bucket)
	}
	return decodeData[model.FinancialSummary](c.httpClient.GET(ctx, withQuery(financialsPath+"/summary", q)))
}

type OperationClient struct {
	httpClient *HttpClient
}

func (c *OperationClient) Create(ctx context.Context, record *model.OperationRecord) (*model.OperationRecord, error) {
	return decodeData[model.OperationRecord](c.httpClient.POST(ctx, operationsPath, record))
}

func (c *OperationClient) List(ctx context.Context, opts LedgerListOptions) (*Page[model.OperationRecord], error) {
	return decodePage[model.OperationRecord](c.httpClient.GET(ctx, withQuery(operationsPath, opts.query())))
}

func (c *OperationClient) GetByID(ctx context.Context, id string) (*model.OperationRecord, error) {
	return decodeData[model.OperationRecord](c.httpClient.GET(ctx, operationsPath+"/id/"+url.PathEscape(id)))
}

func (c *OperationClient) Update(ctx context.Context, id string, update *model.OperationRecordUpdate) (*model.OperationRecord, error) {
	return decodeData[model.OperationRecord](c.httpClient.PUT(ctx, operationsPath+"/id/"+url.PathEscape(id), update))
}

func (c *OperationClient) Delete(ctx context.Context, id string) error {
	return expectNoContent(c.httpClient.DELETE(ctx, operationsPath+"/id/"+url.PathEscape(id)))
}

func (c *OperationClient) Summary(ctx context.Context, opts LedgerListOptions, bucket string) (*model.OperationSummary, error) {
	q := opts.query()
	if bucket != "" {
		q.Set("bucket", bucket)
	}
	return decodeData[model.OperationSummary](c.httpClient.GET(ctx, withQuery(operationsPath+"/summary", q)))
}
