package client

import (
	"context"
	"net/url"

	"studyhall/pkg/model"
)

const sessionsPath = "/api/v1/sessions"

type SessionClient struct {
	httpClient *HttpClient
}

type RevokeAllResult struct {
	UserID  string `json:"user_id"`
	Revoked int64  `json:"revoked"`
}

func (c *SessionClient) Issue(ctx context.Context, userID, deviceID string) (*model.IssuedToken, error) {
	body := model.IssueTokenRequest{UserID: userID, DeviceID: deviceID}
	return decodeData[model.IssuedToken](c.httpClient.POST(ctx, sessionsPath, body))
}

func (c *SessionClient) Validate(ctx context.Context, refreshToken string) (*model.TokenInfo, error) {
	body := model.TokenRequest{RefreshToken: refreshToken}
	return decodeData[model.TokenInfo](c.httpClient.POST(ctx, sessionsPath+"/validate", body))
}

func (c *SessionClient) Refresh(ctx context.Context, refreshToken string) (*model.AccessToken, error) {
	body := model.TokenRequest{RefreshToken: refreshToken}
	return decodeData[model.AccessToken](c.httpClient.POST(ctx, sessionsPath+"/refresh", body))
}

func (c *SessionClient) Revoke(ctx context.Context, refreshToken string) error {
	body := model.TokenRequest{RefreshToken: refreshToken}
	return expectNoContent(c.httpClient.POST(ctx, sessionsPath+"/revoke", body))
}

func (c *SessionClient) RevokeAll(ctx context.Context, userID string) (*RevokeAllResult, error) {
	return decodeData[RevokeAllResult](c.httpClient.DELETE(ctx, sessionsPath+"/user/"+url.PathEscape(userID)))
}
