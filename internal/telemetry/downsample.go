package telemetry

import "aquamonitor/internal/models"

// Downsample reduces points to at most maxPoints by bucket averaging.
// Consecutive non-overlapping buckets of ceil(len/maxPoints) points
// each collapse to a single point: the middle element's timestamp and
// the arithmetic mean of the bucket's values. Input with maxPoints or
// fewer points is returned unchanged.
func Downsample(points []models.TimeSeriesPoint, maxPoints int) []models.TimeSeriesPoint {
	if maxPoints <= 0 || len(points) <= maxPoints {
		return points
	}

	bucketSize := (len(points) + maxPoints - 1) / maxPoints
	reduced := make([]models.TimeSeriesPoint, 0, maxPoints)

	for start := 0; start < len(points); start += bucketSize {
		end := start + bucketSize
		if end > len(points) {
			end = len(points)
		}
		bucket := points[start:end]

		sum := 0.0
		for _, p := range bucket {
			sum += p.Value
		}
		reduced = append(reduced, models.TimeSeriesPoint{
			TimeMS: bucket[len(bucket)/2].TimeMS,
			Value:  sum / float64(len(bucket)),
		})
	}
	return reduced
}
