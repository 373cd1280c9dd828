package ocr

import (
	"encoding/json"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/textract"
)

type AWSClient struct {
	CredentialsPath string
}

// Method required by ocr.Client
// Returns AWS document text detection Result
// Reference: https://docs.aws.amazon.com/textract/
func (c AWSClient) Run(image []byte) (*Result, error) {
	const (
		service    = "AWS"
		keyName    = "credentials"
		configName = "config"
	)

	credentialsFile := path.Join(c.CredentialsPath, keyName)
	configFile := path.Join(c.CredentialsPath, configName)

	s, err := session.NewSessionWithOptions(
		session.Options{
			SharedConfigFiles: []string{credentialsFile, configFile},
			SharedConfigState: session.SharedConfigEnable,
		},
	)
	if err != nil {
		return nil, err
	}
	client := textract.New(s, aws.NewConfig().WithMaxRetries(3))

	input := &textract.DetectDocumentTextInput{
		Document: &textract.Document{Bytes: image},
	}

	start := time.Now()
	result, err := client.DetectDocumentText(input)
	if err != nil {
		return nil, err
	}

	text, conf := textractLines(result.Blocks)
	encoded, err := json.Marshal(result)
	return newResult(service, aws.StringValue(result.DetectDocumentTextModelVersion),
		SegmentQuestions(text, conf), start, encoded), err
}

// textractLines joins LINE blocks in reading order and returns their mean
// confidence scaled to [0, 1].
func textractLines(blocks []*textract.Block) (string, float64) {
	var lines []string
	sum := 0.0
	for _, block := range blocks {
		if aws.StringValue(block.BlockType) != textract.BlockTypeLine {
			continue
		}
		lines = append(lines, aws.StringValue(block.Text))
		sum += aws.Float64Value(block.Confidence)
	}
	if len(lines) == 0 {
		return "", 0
	}
	return strings.Join(lines, "\n"), sum / float64(len(lines)) / 100
}
