package ec2

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/google/uuid"

	"github.com/imamik/vpcctl/internal/config"
	"github.com/imamik/vpcctl/internal/util/labels"
)

// RealClient implements Client using the EC2 API.
type RealClient struct {
	ec2         *awsec2.Client
	region      string
	endpoint    string
	httpClient  *http.Client
	clientToken func() string
}

var _ Client = (*RealClient)(nil)

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithEndpoint overrides the service endpoint (for EC2-compatible emulators).
func WithEndpoint(url string) ClientOption {
	return func(c *RealClient) {
		c.endpoint = url
	}
}

// WithHTTPClient sets a custom HTTP client for API requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *RealClient) {
		c.httpClient = hc
	}
}

// WithClientTokens sets the generator for launch idempotency tokens.
func WithClientTokens(fn func() string) ClientOption {
	return func(c *RealClient) {
		c.clientToken = fn
	}
}

// NewRealClient creates an EC2 client for region authenticated with static credentials.
func NewRealClient(ctx context.Context, creds config.Credentials, region string, opts ...ClientOption) (*RealClient, error) {
	c := &RealClient{
		region:      region,
		clientToken: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, "")),
		awsconfig.WithRegion(region),
	}
	if c.httpClient != nil {
		loadOpts = append(loadOpts, awsconfig.WithHTTPClient(c.httpClient))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	c.ec2 = awsec2.NewFromConfig(cfg, func(o *awsec2.Options) {
		if c.endpoint != "" {
			o.BaseEndpoint = aws.String(c.endpoint)
		}
	})
	return c, nil
}

// Region returns the region the client talks to.
func (c *RealClient) Region() string {
	return c.region
}

// TagResource sets tags on a resource. Existing keys are overwritten.
func (c *RealClient) TagResource(ctx context.Context, resourceID string, tags map[string]string) error {
	if len(tags) == 0 {
		return nil
	}
	sdkTags := make([]types.Tag, 0, len(tags))
	for _, k := range labels.Keys(tags) {
		sdkTags = append(sdkTags, types.Tag{Key: aws.String(k), Value: aws.String(tags[k])})
	}

	_, err := c.ec2.CreateTags(ctx, &awsec2.CreateTagsInput{
		Resources: []string{resourceID},
		Tags:      sdkTags,
	})
	if err != nil {
		return fmt.Errorf("failed to tag %s: %w", resourceID, err)
	}
	return nil
}

func toSDKFilters(filters []Filter) []types.Filter {
	if len(filters) == 0 {
		return nil
	}
	out := make([]types.Filter, len(filters))
	for i, f := range filters {
		out[i] = types.Filter{Name: aws.String(f.Name), Values: f.Values}
	}
	return out
}

// pager is the shape shared by the SDK's Describe* paginators.
type pager[O any] interface {
	HasMorePages() bool
	NextPage(ctx context.Context, optFns ...func(*awsec2.Options)) (O, error)
}

// collect drains a paginator and flattens the items of every page.
func collect[O any, T any](ctx context.Context, p pager[O], items func(O) []T) ([]T, error) {
	var out []T
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, items(page)...)
	}
	return out, nil
}
