package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	pb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

type GCPClient struct {
	CredentialsPath string
}

// Method required by ocr.Client
// Returns GCP document text detection Result
// Reference: https://cloud.google.com/vision/docs/apis
func (c GCPClient) Run(file []byte) (*Result, error) {
	const (
		service = "GCP"
		version = "v1"
		keyName = "gcp.json"
	)

	credentialsFile := path.Join(c.CredentialsPath, keyName)
	ctx := context.Background()
	client, err := vision.NewImageAnnotatorClient(
		ctx,
		option.WithCredentialsFile(credentialsFile),
	)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	request := &pb.BatchAnnotateImagesRequest{
		Requests: []*pb.AnnotateImageRequest{{
			Image:    &pb.Image{Content: file},
			Features: []*pb.Feature{{Type: pb.Feature_DOCUMENT_TEXT_DETECTION}},
		}},
	}

	start := time.Now()
	response, err := client.BatchAnnotateImages(ctx, request)
	if err != nil {
		return nil, err
	}
	annotation, err := documentAnnotation(response)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(annotation)
	return newResult(service, version, SegmentQuestions(annotation.GetText(), pageConfidence(annotation)), start, encoded), err
}

// documentAnnotation unwraps the single image response. A page with no text
// yields an empty annotation.
func documentAnnotation(response *pb.BatchAnnotateImagesResponse) (*pb.TextAnnotation, error) {
	if len(response.GetResponses()) == 0 {
		return nil, fmt.Errorf("gcp: empty response")
	}
	r := response.GetResponses()[0]
	if e := r.GetError(); e != nil && e.GetCode() != 0 {
		return nil, fmt.Errorf("gcp: %d: %s", e.GetCode(), e.GetMessage())
	}
	if r.GetFullTextAnnotation() == nil {
		return &pb.TextAnnotation{}, nil
	}
	return r.GetFullTextAnnotation(), nil
}

// pageConfidence is the mean confidence over the annotated pages.
func pageConfidence(annotation *pb.TextAnnotation) float64 {
	if annotation == nil || len(annotation.Pages) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range annotation.Pages {
		sum += float64(p.Confidence)
	}
	return sum / float64(len(annotation.Pages))
}
