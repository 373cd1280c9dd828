package ocr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"
)

type azureClientCredentials struct {
	Key      string `json:"subscription_key"`
	Endpoint string `json:"endpoint"`
}

type azureVisionResponse struct {
	StatusCode  string        `json:"code,omitempty"`
	StatusMsg   string        `json:"message,omitempty"`
	Language    string        `json:"language"`
	Orientation string        `json:"orientation"`
	Regions     []azureRegion `json:"regions"`
}

type azureRegion struct {
	Bounds string      `json:"boundingBox"`
	Lines  []azureLine `json:"lines"`
}

type azureLine struct {
	Bounds string      `json:"boundingBox"`
	Words  []azureWord `json:"words"`
}

type azureWord struct {
	Bounds string `json:"boundingBox"`
	Text   string `json:"text"`
}

type AzureClient struct {
	CredentialsPath string
	// Endpoint overrides the endpoint in azure.json when set.
	Endpoint string
}

func (c AzureClient) credentials() (*azureClientCredentials, error) {
	credentialsFile := path.Join(c.CredentialsPath, "azure.json")
	f, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, err
	}
	credentials := &azureClientCredentials{}
	if err := json.Unmarshal(f, credentials); err != nil {
		return nil, fmt.Errorf("%s: %w", credentialsFile, err)
	}
	if c.Endpoint != "" {
		credentials.Endpoint = c.Endpoint
	}
	if credentials.Endpoint == "" || credentials.Key == "" {
		return nil, fmt.Errorf("No 'subscription_key' or 'endpoint' in %s", credentialsFile)
	}
	if !strings.HasSuffix(credentials.Endpoint, "/") {
		credentials.Endpoint += "/"
	}
	return credentials, nil
}

// Method required by ocr.Client
// Returns Azure document text detection Result
// Example: https://docs.microsoft.com/en-us/azure/cognitive-services/computer-vision/quickstarts/go-print-text
func (c AzureClient) Run(image []byte) (*Result, error) {
	const (
		service     = "Azure"
		uriVersion  = "vision/v2.1/ocr"
		httpTimeout = time.Second * 15
	)

	credentials, err := c.credentials()
	if err != nil {
		return nil, err
	}
	url := credentials.Endpoint + uriVersion + "?language=unk&detectOrientation=false"

	client := &http.Client{Timeout: httpTimeout}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(image))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/octet-stream")
	req.Header.Add("Ocp-Apim-Subscription-Key", credentials.Key)

	start := time.Now()
	response, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	responseJson, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	result := azureVisionResponse{}
	if err := json.Unmarshal(responseJson, &result); err != nil {
		return nil, fmt.Errorf("azure: %s: %w", response.Status, err)
	}
	if result.StatusCode != "" {
		return nil, fmt.Errorf("%v: %v", result.StatusCode, result.StatusMsg)
	}

	// The v2.1 OCR endpoint reports no confidences.
	return newResult(service, uriVersion, SegmentQuestions(result.text(), 0), start, responseJson), nil
}

func (r azureVisionResponse) text() string {
	var lines []string
	for _, region := range r.Regions {
		for _, line := range region.Lines {
			words := make([]string, len(line.Words))
			for i, word := range line.Words {
				words[i] = word.Text
			}
			lines = append(lines, strings.Join(words, " "))
		}
	}
	return strings.Join(lines, "\n")
}
