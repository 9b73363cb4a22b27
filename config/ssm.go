package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// OverlaySSM copies every parameter under path into c, keyed by the upper-cased
// last segment of the parameter name. SSM values win over env and file values.
func OverlaySSM(ctx context.Context, client ssm.GetParametersByPathAPIClient, c map[string]string, path string) error {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(path),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	loaded := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("load ssm parameters under %s: %w", path, err)
		}
		for _, p := range page.Parameters {
			name := aws.ToString(p.Name)
			key := strings.ToUpper(name[strings.LastIndex(name, "/")+1:])
			if key == "" {
				continue
			}
			c[key] = aws.ToString(p.Value)
			loaded++
		}
	}

	log.Info().Str("path", path).Int("parameters", loaded).Msg("loaded configuration from SSM")
	return nil
}

// Resolve builds the final configuration map: environment, then CONFIG_FILE
// for unset keys, then the SSM_PARAMETER_PATH overlay.
func Resolve(ctx context.Context) (map[string]string, error) {
	c := New()

	if path := GetString(c, "CONFIG_FILE", ""); path != "" {
		if err := MergeFile(c, path); err != nil {
			return nil, err
		}
	}

	if path := GetString(c, "SSM_PARAMETER_PATH", ""); path != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(GetString(c, "AWS_REGION", "ap-south-1")))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		if err := OverlaySSM(ctx, ssm.NewFromConfig(awsCfg), c, path); err != nil {
			return nil, err
		}
	}

	return c, nil
}
