package pipeline

import "github.com/signalnine/algolens/pkg/complexity"

const sampleJavaScript = `function findDuplicates(arr) {
  const duplicates = [];
  for (let i = 0; i < arr.length; i++) {
    for (let j = i + 1; j < arr.length; j++) {
      if (arr[i] === arr[j] && !duplicates.includes(arr[i])) {
        duplicates.push(arr[i]);
      }
    }
  }
  return duplicates;
}`

const samplePython = `def find_duplicates(arr):
    duplicates = []
    for i in range(len(arr)):
        for j in range(i + 1, len(arr)):
            if arr[i] == arr[j] and arr[i] not in duplicates:
                duplicates.append(arr[i])
    return duplicates`

const sampleJava = `import java.util.ArrayList;
import java.util.List;

public class Algorithm {
    public static List<Integer> findDuplicates(int[] arr) {
        List<Integer> duplicates = new ArrayList<>();
        for (int i = 0; i < arr.length; i++) {
            for (int j = i + 1; j < arr.length; j++) {
                if (arr[i] == arr[j] && !duplicates.contains(arr[i])) {
                    duplicates.add(arr[i]);
                }
            }
        }
        return duplicates;
    }
}`

// Sample returns the starter program for lang: a quadratic duplicate finder.
// It returns "" for LanguageUnknown.
func Sample(lang complexity.Language) string {
	switch lang {
	case complexity.JavaScript:
		return sampleJavaScript
	case complexity.Python:
		return samplePython
	case complexity.Java:
		return sampleJava
	default:
		return ""
	}
}
