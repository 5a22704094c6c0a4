// Package web serves the embedded demo page for manual testing of the
// token-gated upload flow.
package web

import "net/http"

// Demo serves the upload demo page.
func Demo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(demoPage))
}

const demoPage = `<!DOCTYPE html>
<html lang="en">

<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Upload Demo</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
            max-width: 800px;
            margin: 0 auto;
            padding: 20px;
            line-height: 1.6;
        }

        h1 {
            color: #333;
            text-align: center;
        }

        .upload-container {
            border: 2px dashed #ccc;
            border-radius: 10px;
            padding: 20px;
            text-align: center;
            margin: 20px 0;
            background-color: #f9f9f9;
        }

        .btn {
            background-color: #4285f4;
            color: white;
            border: none;
            padding: 10px 20px;
            border-radius: 5px;
            cursor: pointer;
            font-size: 16px;
            margin-top: 10px;
        }

        .btn:hover {
            background-color: #3367d6;
        }

        #result {
            margin-top: 20px;
            padding: 15px;
            border-radius: 5px;
            display: none;
        }

        .success {
            background-color: #d4edda;
            border: 1px solid #c3e6cb;
            color: #155724;
        }

        .error {
            background-color: #f8d7da;
            border: 1px solid #f5c6cb;
            color: #721c24;
        }

        #fileUrl {
            word-break: break-all;
        }

        code {
            background: #f0f0f0;
            padding: 2px 4px;
            border-radius: 3px;
        }
    </style>
</head>

<body>
    <h1>Upload Demo</h1>

    <div class="upload-container">
        <h2>Upload a file</h2>
        <form id="uploadForm">
            <input type="password" id="apiKey" placeholder="Internal API key" required>
            <br>
            <input type="file" id="fileInput" name="file" required>
            <br>
            <button type="submit" class="btn">Upload</button>
        </form>
    </div>

    <div id="result">
        <h3>Result</h3>
        <p id="message"></p>
        <p>File URL: <a id="fileUrl" href="#" target="_blank"></a></p>
    </div>

    <div>
        <h2>API usage</h2>
        <h3>Upload a file</h3>
        <p>First request an upload token with your API key, then POST the file
        as multipart/form-data with the field name "file" and the token in the
        <code>Upload-Token</code> header.</p>
        <pre><code>
const tokenRes = await fetch('/get-upload-token', {
  method: 'POST',
  headers: { 'X-API-Key': apiKey }
});
const { token } = await tokenRes.json();

const formData = new FormData();
formData.append('file', fileObject);

const res = await fetch('/', {
  method: 'POST',
  headers: { 'Upload-Token': token },
  body: formData
});
const data = await res.json();
console.log('file URL:', data.url);
    </code></pre>
    </div>

    <script>
        document.getElementById('uploadForm').addEventListener('submit', async (e) => {
            e.preventDefault();

            const apiKey = document.getElementById('apiKey').value;
            const fileInput = document.getElementById('fileInput');
            const resultDiv = document.getElementById('result');
            const messageEl = document.getElementById('message');
            const fileUrlEl = document.getElementById('fileUrl');

            const fail = (text) => {
                resultDiv.className = 'error';
                messageEl.textContent = text;
                resultDiv.style.display = 'block';
            };

            if (!fileInput.files[0]) {
                fail('Please choose a file');
                return;
            }

            try {
                const tokenRes = await fetch('/get-upload-token', {
                    method: 'POST',
                    headers: { 'X-API-Key': apiKey }
                });
                const tokenData = await tokenRes.json();
                if (!tokenData.success) {
                    fail('Token request failed: ' + (tokenData.message || 'unknown error'));
                    return;
                }

                const formData = new FormData();
                formData.append('file', fileInput.files[0]);

                const response = await fetch('/', {
                    method: 'POST',
                    headers: { 'Upload-Token': tokenData.token },
                    body: formData
                });

                const data = await response.json();

                if (data.success) {
                    resultDiv.className = 'success';
                    messageEl.textContent = 'Upload succeeded!';
                    fileUrlEl.textContent = data.url;
                    fileUrlEl.href = data.url;
                    resultDiv.style.display = 'block';
                } else {
                    fail('Upload failed: ' + (data.message || 'unknown error'));
                }
            } catch (error) {
                fail('Upload error: ' + error.message);
            }
        });
    </script>
</body>

</html>
`
