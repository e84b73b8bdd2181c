package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

type SNSOptions struct {
	Endpoint  string // 为空时使用 AWS 默认端点；本地可指向 localstack
	Region    string
	AccessKey string
	SecretKey string
	Topic     string // topic ARN
}

type snsAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSPublisher struct {
	client snsAPI
	topic  string
}

func NewSNS(ctx context.Context, o SNSOptions) (*SNSPublisher, error) {
	if o.Topic == "" {
		return nil, errors.New("sns: topic is required")
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(o.Region)}
	if o.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("sns: load aws config: %w", err)
	}
	client := sns.NewFromConfig(cfg, func(opt *sns.Options) {
		if o.Endpoint != "" {
			opt.BaseEndpoint = aws.String(o.Endpoint)
		}
	})
	return newSNSPublisher(client, o.Topic), nil
}

func newSNSPublisher(client snsAPI, topic string) *SNSPublisher {
	return &SNSPublisher{client: client, topic: topic}
}

func (p *SNSPublisher) Publish(ctx context.Context, body []byte) error {
	_, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topic),
		Message:  aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}

func (p *SNSPublisher) Close() error { return nil }
